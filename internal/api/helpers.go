package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tokenfactory/internal/bank"
	"tokenfactory/internal/contract"
)

// statusForError maps a factory error to an HTTP status code. The contract
// error kind travels in the response body so clients can tell, for example,
// a fee problem from an authorization problem.
func statusForError(err error) int {
	switch {
	case errors.Is(err, contract.ErrAlreadyInitialized):
		return http.StatusConflict
	case errors.Is(err, contract.ErrNotInitialized):
		return http.StatusConflict
	case errors.Is(err, contract.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, contract.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrInsufficientFee):
		return http.StatusPaymentRequired
	case errors.Is(err, bank.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, contract.ErrDeploymentFailed), errors.Is(err, contract.ErrMintFailed):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// sendJSON writes a JSON response with the given status code
func (s *Server) sendJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// sendError sends a plain JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	s.sendJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}

// sendContractError sends a JSON error response carrying the contract
// error kind
func (s *Server) sendContractError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	s.sendJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Kind:    contract.Kind(err),
		Message: err.Error(),
		Code:    code,
	})
}
