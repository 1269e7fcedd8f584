package host

import (
	"context"
	"sync"
)

// MemoryHost is an in-process Host used by tests and by dev mode when no
// database is configured. A single mutex serializes invocations; writes are
// buffered per invocation and applied only when fn succeeds.
type MemoryHost struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

// NewMemoryHost creates an empty in-memory host
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		data: make(map[string]map[string][]byte),
	}
}

// Atomic runs fn with buffered writes, applying them only on success
func (h *MemoryHost) Atomic(ctx context.Context, fn func(Store) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	txn := &memoryTxn{
		host:   h,
		writes: make(map[string]map[string][]byte),
	}

	if err := fn(txn); err != nil {
		return err
	}

	// Commit: fold buffered writes into the base maps
	for ns, keys := range txn.writes {
		base, ok := h.data[ns]
		if !ok {
			base = make(map[string][]byte)
			h.data[ns] = base
		}
		for k, v := range keys {
			base[k] = v
		}
	}

	return nil
}

// Ping always succeeds for the in-memory host
func (h *MemoryHost) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory host
func (h *MemoryHost) Close() error {
	return nil
}

// memoryTxn is the per-invocation transactional view: reads consult the
// write buffer first, then the committed base state.
type memoryTxn struct {
	host   *MemoryHost
	writes map[string]map[string][]byte
}

func (t *memoryTxn) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if keys, ok := t.writes[namespace]; ok {
		if v, ok := keys[key]; ok {
			return cloneBytes(v), true, nil
		}
	}

	if keys, ok := t.host.data[namespace]; ok {
		if v, ok := keys[key]; ok {
			return cloneBytes(v), true, nil
		}
	}

	return nil, false, nil
}

func (t *memoryTxn) Put(ctx context.Context, namespace, key string, value []byte) error {
	keys, ok := t.writes[namespace]
	if !ok {
		keys = make(map[string][]byte)
		t.writes[namespace] = keys
	}
	keys[key] = cloneBytes(value)
	return nil
}

func (t *memoryTxn) Has(ctx context.Context, namespace, key string) (bool, error) {
	_, found, err := t.Get(ctx, namespace, key)
	return found, err
}

// cloneBytes copies a value so callers cannot mutate committed state
func cloneBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
