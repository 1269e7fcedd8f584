package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stellar/go/amount"

	"tokenfactory/internal/bank"
	"tokenfactory/internal/contract"
	"tokenfactory/internal/factory"
	"tokenfactory/internal/host"
	"tokenfactory/internal/metrics"
)

// handleIndex returns basic service information
// GET / - Returns service info and available endpoints
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	info := map[string]interface{}{
		"service":     "Token Factory",
		"version":     "1.0.0",
		"description": "Fee-gated token factory with an append-only creation registry",
		"endpoints": map[string]string{
			"GET /":               "This page - Service information",
			"GET /health":         "Health check endpoint",
			"GET /metrics":        "Prometheus metrics for monitoring",
			"POST /initialize":    "One-time factory initialization",
			"POST /fees":          "Update the fee schedule (admin only)",
			"GET /state":          "Current factory configuration",
			"POST /tokens":        "Create a new token (fee-gated)",
			"GET /tokens":         "List created tokens (supports ?limit=, ?offset=)",
			"GET /tokens/count":   "Number of tokens created",
			"GET /tokens/{index}": "Registry record at a creation index",
			"POST /faucet":        "Credit native balance (development only)",
		},
	}

	s.sendJSON(w, http.StatusOK, info)
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.host.Ping(r.Context()); err != nil {
		s.sendError(w, "Storage unhealthy", http.StatusServiceUnavailable)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "token-factory",
	}

	s.sendJSON(w, http.StatusOK, health)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// =============================================================================
// FACTORY ENTRY POINTS
// =============================================================================

// handleInitialize performs the one-time factory bootstrap
// POST /initialize
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, r, err := readAttestedBody(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req InitializeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := s.factory.Initialize(r.Context(), req.Admin, req.Treasury, req.BaseFee, req.MetadataFee); err != nil {
		slog.Error("Initialize failed", "error", err)
		s.sendContractError(w, err)
		s.countRequest("/initialize", statusForError(err))
		return
	}

	s.sendJSON(w, http.StatusCreated, map[string]string{"status": "initialized"})
	s.countRequest("/initialize", http.StatusCreated)
}

// handleUpdateFees merges the supplied fee fields into the schedule
// POST /fees
func (s *Server) handleUpdateFees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, r, err := readAttestedBody(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req UpdateFeesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	update := contract.FeeUpdate{
		BaseFee:     req.BaseFee,
		MetadataFee: req.MetadataFee,
	}
	if err := s.factory.UpdateFees(r.Context(), req.Caller, update); err != nil {
		slog.Error("Fee update failed", "caller", req.Caller, "error", err)
		s.sendContractError(w, err)
		s.countRequest("/fees", statusForError(err))
		return
	}

	s.writeState(r.Context(), w, http.StatusOK)
	s.countRequest("/fees", http.StatusOK)
}

// handleCreateToken runs the fee-gated creation transaction
// POST /tokens
func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	body, r, err := readAttestedBody(r)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req CreateTokenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	address, err := s.factory.CreateToken(r.Context(), factory.CreateTokenParams{
		Creator:       req.Creator,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Decimals:      req.Decimals,
		InitialSupply: req.InitialSupply,
		MetadataURI:   req.MetadataURI,
		Payment:       req.Payment,
	})
	if err != nil {
		slog.Error("Token creation failed", "creator", req.Creator, "symbol", req.Symbol, "error", err)
		s.sendContractError(w, err)
		s.countRequest("/tokens", statusForError(err))
		return
	}

	// Recompute the charged fee for the response
	feeCharged := int64(0)
	if state, stateErr := s.factory.GetState(r.Context()); stateErr == nil {
		feeCharged = state.BaseFee
		if req.MetadataURI != nil {
			feeCharged += state.MetadataFee
		}
	}

	count, _ := s.factory.GetTokenCount(r.Context())

	s.sendJSON(w, http.StatusCreated, CreateTokenResponse{
		Address:       address,
		Creator:       req.Creator,
		Symbol:        req.Symbol,
		FeeCharged:    feeCharged,
		FeeChargedXLM: amount.StringFromInt64(feeCharged),
		Index:         count - 1,
	})
	s.countRequest("/tokens", http.StatusCreated)
}

// handleGetState returns the factory configuration
// GET /state
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeState(r.Context(), w, http.StatusOK)
}

// writeState fetches the config and writes it as a StateResponse
func (s *Server) writeState(ctx context.Context, w http.ResponseWriter, code int) {
	state, err := s.factory.GetState(ctx)
	if err != nil {
		s.sendContractError(w, err)
		return
	}

	s.sendJSON(w, code, StateResponse{
		Admin:          state.Admin,
		Treasury:       state.Treasury,
		BaseFee:        state.BaseFee,
		BaseFeeXLM:     amount.StringFromInt64(state.BaseFee),
		MetadataFee:    state.MetadataFee,
		MetadataFeeXLM: amount.StringFromInt64(state.MetadataFee),
	})
}

// =============================================================================
// REGISTRY ENDPOINTS
// =============================================================================

// handleListTokens lists registry records in creation order
// GET /tokens?limit=50&offset=0
func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Pagination
	limit := 50 // default
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	tokens, total, err := s.factory.ListTokens(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list tokens", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := (offset / limit) + 1

	s.sendJSON(w, http.StatusOK, TokenListResponse{
		Tokens:   tokens,
		Total:    total,
		Page:     page,
		PageSize: limit,
	})
}

// handleTokenCount returns the registry length
// GET /tokens/count
func (s *Server) handleTokenCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.factory.GetTokenCount(r.Context())
	if err != nil {
		slog.Error("Failed to count tokens", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, TokenCountResponse{Count: count})
}

// handleGetToken returns the registry record at a creation index
// GET /tokens/{index}
func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request, indexStr string) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		s.sendError(w, "Index must be an integer", http.StatusBadRequest)
		return
	}

	record, found, err := s.factory.GetTokenInfo(r.Context(), index)
	if err != nil {
		slog.Error("Failed to get token info", "index", index, "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		// A lookup miss, not a contract error
		s.sendError(w, "No token at this index", http.StatusNotFound)
		return
	}

	s.sendJSON(w, http.StatusOK, record)
}

// handleFaucet credits native balance so creators can pay fees in dev setups
// POST /faucet
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FaucetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if !contract.IsAccountAddress(req.Address) {
		s.sendError(w, "Address must be a valid account strkey", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := s.host.Atomic(ctx, func(st host.Store) error {
		return bank.New(st).Credit(ctx, req.Address, req.Amount)
	})
	if err != nil {
		slog.Error("Faucet credit failed", "address", req.Address, "error", err)
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"status": "credited"})
}

// countRequest bumps the HTTP metrics counter
func (s *Server) countRequest(endpoint string, status int) {
	metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
