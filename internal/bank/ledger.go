// Package bank implements the native-asset ledger the factory collects fees
// through. Balances live in the host store under their own namespace, so a
// transfer made inside an invocation rolls back with everything else when
// the invocation fails.
package bank

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"tokenfactory/internal/host"
)

// Namespace for native balances in the host store
const namespace = "native"

// ErrInsufficientBalance is returned when the source account cannot cover a
// transfer. An account with no balance entry holds zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger tracks native stroop balances inside one invocation scope
type Ledger struct {
	store host.Store
}

// New creates a ledger view over the given store
func New(store host.Store) *Ledger {
	return &Ledger{store: store}
}

// Balance returns the native balance of an account, zero if absent
func (l *Ledger) Balance(ctx context.Context, address string) (int64, error) {
	value, found, err := l.store.Get(ctx, namespace, balanceKey(address))
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	if !found {
		return 0, nil
	}

	balance, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance for %s: %w", address, err)
	}

	return balance, nil
}

// Credit adds amount to an account. Used by the dev faucet and tests to fund
// accounts before they pay creation fees.
func (l *Ledger) Credit(ctx context.Context, address string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	balance, err := l.Balance(ctx, address)
	if err != nil {
		return err
	}

	return l.setBalance(ctx, address, balance+amount)
}

// Transfer moves amount from one account to another, failing if the source
// cannot cover it. A zero-amount transfer is a no-op.
func (l *Ledger) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must be non-negative, got %d", amount)
	}
	if amount == 0 || from == to {
		return nil
	}

	fromBalance, err := l.Balance(ctx, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientBalance, from, fromBalance, amount)
	}

	toBalance, err := l.Balance(ctx, to)
	if err != nil {
		return err
	}

	if err := l.setBalance(ctx, from, fromBalance-amount); err != nil {
		return err
	}
	if err := l.setBalance(ctx, to, toBalance+amount); err != nil {
		return err
	}

	return nil
}

func (l *Ledger) setBalance(ctx context.Context, address string, balance int64) error {
	value := []byte(strconv.FormatInt(balance, 10))
	if err := l.store.Put(ctx, namespace, balanceKey(address), value); err != nil {
		return fmt.Errorf("failed to write balance: %w", err)
	}
	return nil
}

func balanceKey(address string) string {
	return "balance:" + address
}
