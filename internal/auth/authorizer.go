// Package auth implements the authorization oracle consulted by the factory
// before any mutating operation. The oracle answers one question: did the
// claimed principal actually authorize the current invocation?
package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAuthorized is returned when an attestation is missing, does not
// match the claimed principal, or fails signature verification.
var ErrNotAuthorized = errors.New("principal did not authorize this invocation")

// Authorizer verifies that the current invocation was authorized by the
// given principal. Implementations read request-scoped attestation data
// from the context.
type Authorizer interface {
	// Verify returns nil when principal authorized the current call
	Verify(ctx context.Context, principal string) error
}

// Attestation is the request-scoped proof that an address authorized a call:
// an ed25519 signature by the address over the canonical request payload.
type Attestation struct {
	Address   string
	Payload   []byte
	Signature []byte
}

type attestationKey struct{}

// WithAttestation attaches an attestation to the context for the duration of
// one invocation. Set by the API layer before entering the factory.
func WithAttestation(ctx context.Context, att Attestation) context.Context {
	return context.WithValue(ctx, attestationKey{}, att)
}

// AttestationFrom extracts the attestation from the context
func AttestationFrom(ctx context.Context) (Attestation, bool) {
	att, ok := ctx.Value(attestationKey{}).(Attestation)
	return att, ok
}

// MockAuthorizer is a test and dev-mode oracle. With AllowAll set it grants
// every principal (the local equivalent of mocking all auths); otherwise it
// grants only the addresses in Granted.
type MockAuthorizer struct {
	AllowAll bool
	Granted  map[string]bool
}

// NewAllowAllAuthorizer returns a MockAuthorizer granting every principal
func NewAllowAllAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{AllowAll: true}
}

// Verify grants or denies based on the configured address set
func (m *MockAuthorizer) Verify(ctx context.Context, principal string) error {
	if m.AllowAll {
		return nil
	}
	if m.Granted[principal] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotAuthorized, principal)
}
