package contract

import "github.com/stellar/go/strkey"

// Decimals precision accepted for new tokens.
// 7 is the Stellar convention; 18 covers EVM-style assets.
const (
	MinDecimals = 0
	MaxDecimals = 18
)

// MaxSymbolLength bounds token symbols to the Stellar asset-code shape
const MaxSymbolLength = 12

// FactoryConfig is the factory singleton state, written once by Initialize
// and mutated only by UpdateFees. Admin and Treasury are immutable after
// initialization.
type FactoryConfig struct {
	Admin       string `json:"admin"`        // Account authorized to change fees
	Treasury    string `json:"treasury"`     // Account receiving collected fees
	BaseFee     int64  `json:"base_fee"`     // Creation cost in stroops, no metadata
	MetadataFee int64  `json:"metadata_fee"` // Additional cost when metadata is supplied
}

// TokenRecord describes one token created by the factory. Records are
// append-only and immutable; the registry owns them exclusively.
type TokenRecord struct {
	Address     string  `json:"address"`                // Contract address of the deployed token
	Creator     string  `json:"creator"`                // Account that requested creation
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Decimals    uint32  `json:"decimals"`
	TotalSupply int64   `json:"total_supply"`           // Initial minted amount in base units
	MetadataURI *string `json:"metadata_uri,omitempty"` // nil means no metadata fee was charged
}

// FeeUpdate carries the optional fields for UpdateFees. A nil field leaves
// the corresponding fee untouched; this distinguishes "unset" from
// "set to zero".
type FeeUpdate struct {
	BaseFee     *int64 `json:"base_fee,omitempty"`
	MetadataFee *int64 `json:"metadata_fee,omitempty"`
}

// IsAccountAddress reports whether s is a valid Stellar account strkey (G...)
func IsAccountAddress(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// IsContractAddress reports whether s is a valid contract strkey (C...)
func IsContractAddress(s string) bool {
	_, err := strkey.Decode(strkey.VersionByteContract, s)
	return err == nil
}
