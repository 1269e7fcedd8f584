// Package host abstracts the persistent state store and the atomic
// transaction guarantee that the factory contract runs on. Each contract
// entry point executes inside exactly one Atomic scope: either every write
// performed in the scope commits, or none do.
package host

import "context"

// Store is durable key-value storage scoped by contract namespace.
// Values are opaque bytes; callers JSON-encode their own types.
type Store interface {
	// Get returns the value for (namespace, key); found is false on a miss
	Get(ctx context.Context, namespace, key string) (value []byte, found bool, err error)

	// Put writes the value for (namespace, key), overwriting any previous value
	Put(ctx context.Context, namespace, key string, value []byte) error

	// Has reports whether (namespace, key) exists
	Has(ctx context.Context, namespace, key string) (bool, error)
}

// Host provides the transaction boundary for contract invocations.
type Host interface {
	// Atomic runs fn against a transactional Store view. If fn returns an
	// error, every write made through the view is discarded and the error
	// is returned. Concurrent invocations are serialized by the host.
	Atomic(ctx context.Context, fn func(Store) error) error

	// Ping checks that the underlying storage is reachable
	Ping(ctx context.Context) error

	// Close releases storage resources
	Close() error
}
