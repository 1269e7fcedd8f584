package api

import "tokenfactory/internal/contract"

// InitializeRequest is the body of POST /initialize
type InitializeRequest struct {
	Admin       string `json:"admin"`
	Treasury    string `json:"treasury"`
	BaseFee     int64  `json:"base_fee"`
	MetadataFee int64  `json:"metadata_fee"`
}

// UpdateFeesRequest is the body of POST /fees. Omitted fields are left
// untouched.
type UpdateFeesRequest struct {
	Caller      string `json:"caller"`
	BaseFee     *int64 `json:"base_fee,omitempty"`
	MetadataFee *int64 `json:"metadata_fee,omitempty"`
}

// CreateTokenRequest is the body of POST /tokens
type CreateTokenRequest struct {
	Creator       string  `json:"creator"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Decimals      uint32  `json:"decimals"`
	InitialSupply int64   `json:"initial_supply"`
	MetadataURI   *string `json:"metadata_uri,omitempty"`
	Payment       int64   `json:"payment"`
}

// FaucetRequest is the body of POST /faucet (dev convenience)
type FaucetRequest struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// StateResponse is the factory config with fee amounts formatted for UIs
type StateResponse struct {
	Admin          string `json:"admin"`
	Treasury       string `json:"treasury"`
	BaseFee        int64  `json:"base_fee"`
	BaseFeeXLM     string `json:"base_fee_xlm"`
	MetadataFee    int64  `json:"metadata_fee"`
	MetadataFeeXLM string `json:"metadata_fee_xlm"`
}

// CreateTokenResponse reports a successful creation
type CreateTokenResponse struct {
	Address       string `json:"address"`
	Creator       string `json:"creator"`
	Symbol        string `json:"symbol"`
	FeeCharged    int64  `json:"fee_charged"`
	FeeChargedXLM string `json:"fee_charged_xlm"`
	Index         int    `json:"index"`
}

// TokenListResponse is a page of the registry
type TokenListResponse struct {
	Tokens   []contract.TokenRecord `json:"tokens"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// TokenCountResponse wraps the registry length
type TokenCountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the uniform error payload. Kind carries the stable
// contract error code when the failure maps to the contract taxonomy.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
