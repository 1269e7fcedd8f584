package auth

import (
	"context"
	"fmt"

	"github.com/stellar/go/keypair"
)

// SignatureAuthorizer verifies attestations cryptographically: the principal
// must be a valid account strkey and the attached signature must be a valid
// ed25519 signature by that account over the invocation payload.
type SignatureAuthorizer struct{}

// NewSignatureAuthorizer creates a new SignatureAuthorizer
func NewSignatureAuthorizer() *SignatureAuthorizer {
	return &SignatureAuthorizer{}
}

// Verify checks the context attestation against the claimed principal
func (a *SignatureAuthorizer) Verify(ctx context.Context, principal string) error {
	att, ok := AttestationFrom(ctx)
	if !ok {
		return fmt.Errorf("%w: no attestation supplied", ErrNotAuthorized)
	}

	if att.Address != principal {
		return fmt.Errorf("%w: attestation is for %s, not %s", ErrNotAuthorized, att.Address, principal)
	}

	kp, err := keypair.ParseAddress(principal)
	if err != nil {
		return fmt.Errorf("%w: invalid principal address: %v", ErrNotAuthorized, err)
	}

	if err := kp.Verify(att.Payload, att.Signature); err != nil {
		return fmt.Errorf("%w: signature verification failed", ErrNotAuthorized)
	}

	return nil
}
