package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"tokenfactory/internal/auth"
)

// Attestation headers. The signature is an ed25519 signature by the address
// over the raw request body, base64 encoded.
const (
	headerAuthAddress   = "X-Auth-Address"
	headerAuthSignature = "X-Auth-Signature"
)

// maxBodySize bounds request bodies to keep payload parsing cheap
const maxBodySize = 1 << 20

// readAttestedBody reads the request body and, when attestation headers are
// present, attaches the attestation to the request context for the
// authorization oracle. Returns the body bytes and the enriched request.
func readAttestedBody(r *http.Request) ([]byte, *http.Request, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read request body: %w", err)
	}

	address := r.Header.Get(headerAuthAddress)
	if address == "" {
		return body, r, nil
	}

	signature, err := base64.StdEncoding.DecodeString(r.Header.Get(headerAuthSignature))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %s: %w", headerAuthSignature, err)
	}

	ctx := auth.WithAttestation(r.Context(), auth.Attestation{
		Address:   address,
		Payload:   body,
		Signature: signature,
	})

	return body, r.WithContext(ctx), nil
}
