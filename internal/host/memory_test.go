package host

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryHost_CommitOnSuccess(t *testing.T) {
	h := NewMemoryHost()
	ctx := context.Background()

	err := h.Atomic(ctx, func(s Store) error {
		return s.Put(ctx, "factory", "config", []byte(`{"a":1}`))
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = h.Atomic(ctx, func(s Store) error {
		value, found, err := s.Get(ctx, "factory", "config")
		if err != nil {
			return err
		}
		if !found {
			t.Error("Expected committed value to be found")
		}
		if string(value) != `{"a":1}` {
			t.Errorf("Expected stored value, got: %s", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestMemoryHost_RollbackOnError(t *testing.T) {
	h := NewMemoryHost()
	ctx := context.Background()

	failure := errors.New("boom")
	err := h.Atomic(ctx, func(s Store) error {
		if err := s.Put(ctx, "factory", "config", []byte("x")); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("Expected the invocation error, got: %v", err)
	}

	err = h.Atomic(ctx, func(s Store) error {
		found, err := s.Has(ctx, "factory", "config")
		if err != nil {
			return err
		}
		if found {
			t.Error("Expected write to be discarded after rollback")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestMemoryHost_ReadsSeeOwnWrites(t *testing.T) {
	h := NewMemoryHost()
	ctx := context.Background()

	err := h.Atomic(ctx, func(s Store) error {
		if err := s.Put(ctx, "native", "balance:G1", []byte("100")); err != nil {
			return err
		}
		value, found, err := s.Get(ctx, "native", "balance:G1")
		if err != nil {
			return err
		}
		if !found {
			t.Error("Expected uncommitted write to be visible in the same scope")
		}
		if string(value) != "100" {
			t.Errorf("Expected 100, got: %s", value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestMemoryHost_NamespaceIsolation(t *testing.T) {
	h := NewMemoryHost()
	ctx := context.Background()

	err := h.Atomic(ctx, func(s Store) error {
		return s.Put(ctx, "factory", "k", []byte("v"))
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	err = h.Atomic(ctx, func(s Store) error {
		found, err := s.Has(ctx, "native", "k")
		if err != nil {
			return err
		}
		if found {
			t.Error("Expected key to be scoped to its namespace")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}
