// Package factory implements the fee-gated token factory contract: one-time
// initialization, admin-controlled fee schedule, and the atomic create-token
// transaction that validates, collects payment, deploys, mints, and records
// the new token in the registry.
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tokenfactory/internal/auth"
	"tokenfactory/internal/bank"
	"tokenfactory/internal/contract"
	"tokenfactory/internal/host"
	"tokenfactory/internal/metrics"
	"tokenfactory/internal/token"
)

// Storage layout within the factory namespace
const (
	// Namespace is the factory's own storage namespace
	Namespace = "factory"

	configKey   = "config"
	registryKey = "registry"
)

// FeeLedger is the transfer primitive used to collect creation fees
type FeeLedger interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// Factory holds the collaborators of the factory contract. The bank ledger
// and token deployer are built per invocation over the transactional store
// view, so their effects commit or roll back with the invocation.
type Factory struct {
	host              host.Host
	authorizer        auth.Authorizer
	networkPassphrase string

	newLedger   func(host.Store) FeeLedger
	newDeployer func(host.Store) token.Deployer
}

// Option customizes factory collaborators, mainly for tests
type Option func(*Factory)

// WithLedger overrides the fee ledger constructor
func WithLedger(fn func(host.Store) FeeLedger) Option {
	return func(f *Factory) { f.newLedger = fn }
}

// WithDeployer overrides the token deployer constructor
func WithDeployer(fn func(host.Store) token.Deployer) Option {
	return func(f *Factory) { f.newDeployer = fn }
}

// New creates a factory over the given host and authorization oracle
func New(h host.Host, authorizer auth.Authorizer, networkPassphrase string, opts ...Option) *Factory {
	f := &Factory{
		host:              h,
		authorizer:        authorizer,
		networkPassphrase: networkPassphrase,
		newLedger: func(s host.Store) FeeLedger {
			return bank.New(s)
		},
	}
	f.newDeployer = func(s host.Store) token.Deployer {
		return token.NewTemplateDeployer(s, networkPassphrase)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Initialize writes the factory singleton config. It must succeed exactly
// once for the contract's lifetime; every later call fails regardless of
// caller, so admin and treasury can never be overwritten after deployment.
func (f *Factory) Initialize(ctx context.Context, admin, treasury string, baseFee, metadataFee int64) error {
	err := f.host.Atomic(ctx, func(s host.Store) error {
		exists, err := s.Has(ctx, Namespace, configKey)
		if err != nil {
			return fmt.Errorf("failed to check factory config: %w", err)
		}
		if exists {
			return contract.ErrAlreadyInitialized
		}

		if !contract.IsAccountAddress(admin) {
			return fmt.Errorf("%w: admin is not a valid account address", contract.ErrInvalidParameters)
		}
		if !contract.IsAccountAddress(treasury) {
			return fmt.Errorf("%w: treasury is not a valid account address", contract.ErrInvalidParameters)
		}
		if baseFee < 0 || metadataFee < 0 {
			return fmt.Errorf("%w: fees must be non-negative", contract.ErrInvalidParameters)
		}

		config := contract.FactoryConfig{
			Admin:       admin,
			Treasury:    treasury,
			BaseFee:     baseFee,
			MetadataFee: metadataFee,
		}
		if err := writeJSON(ctx, s, configKey, &config); err != nil {
			return err
		}

		return appendEvent(ctx, s, EventFactoryInitialized, map[string]interface{}{
			"admin":        admin,
			"treasury":     treasury,
			"base_fee":     baseFee,
			"metadata_fee": metadataFee,
		})
	})

	if err != nil {
		f.recordError(err)
		return err
	}

	slog.Info("Factory initialized",
		"admin", admin,
		"treasury", treasury,
		"base_fee", baseFee,
		"metadata_fee", metadataFee,
	)
	return nil
}

// UpdateFees overwrites the fee fields that are present in the update and
// leaves absent fields untouched. Admin only; already-created tokens are
// unaffected.
func (f *Factory) UpdateFees(ctx context.Context, caller string, update contract.FeeUpdate) error {
	err := f.host.Atomic(ctx, func(s host.Store) error {
		config, found, err := readConfig(ctx, s)
		if err != nil {
			return err
		}
		if !found {
			return contract.ErrNotInitialized
		}

		if err := f.authorizer.Verify(ctx, caller); err != nil {
			return fmt.Errorf("%w: %v", contract.ErrUnauthorized, err)
		}
		if caller != config.Admin {
			return fmt.Errorf("%w: caller %s is not the admin", contract.ErrUnauthorized, caller)
		}

		if update.BaseFee != nil && *update.BaseFee < 0 {
			return fmt.Errorf("%w: base fee must be non-negative", contract.ErrInvalidParameters)
		}
		if update.MetadataFee != nil && *update.MetadataFee < 0 {
			return fmt.Errorf("%w: metadata fee must be non-negative", contract.ErrInvalidParameters)
		}

		if update.BaseFee != nil {
			config.BaseFee = *update.BaseFee
		}
		if update.MetadataFee != nil {
			config.MetadataFee = *update.MetadataFee
		}

		if err := writeJSON(ctx, s, configKey, config); err != nil {
			return err
		}

		return appendEvent(ctx, s, EventFeesUpdated, map[string]interface{}{
			"base_fee":     config.BaseFee,
			"metadata_fee": config.MetadataFee,
		})
	})

	if err != nil {
		f.recordError(err)
		return err
	}

	metrics.FeeUpdates.Inc()
	slog.Info("Fee schedule updated", "caller", caller)
	return nil
}

// CreateTokenParams carries the create_token call arguments. Payment is the
// fee amount the creator authorizes; only the required fee is transferred,
// any excess never leaves the creator.
type CreateTokenParams struct {
	Creator       string
	Name          string
	Symbol        string
	Decimals      uint32
	InitialSupply int64
	MetadataURI   *string
	Payment       int64
}

// CreateToken runs the creation transaction as one atomic unit: validate
// state, authorization, parameters and payment, collect the fee, deploy the
// token template, mint the initial supply to the creator, and append the
// registry record. Checks run in that order; the first failure determines
// the reported error and nothing committed before it survives.
func (f *Factory) CreateToken(ctx context.Context, p CreateTokenParams) (string, error) {
	start := time.Now()

	var tokenAddress string
	var requiredFee int64
	var registrySize int

	err := f.host.Atomic(ctx, func(s host.Store) error {
		config, found, err := readConfig(ctx, s)
		if err != nil {
			return err
		}
		if !found {
			return contract.ErrNotInitialized
		}

		if err := f.authorizer.Verify(ctx, p.Creator); err != nil {
			return fmt.Errorf("%w: %v", contract.ErrUnauthorized, err)
		}

		if err := validateCreateParams(p); err != nil {
			return err
		}

		requiredFee = config.BaseFee
		if p.MetadataURI != nil {
			requiredFee += config.MetadataFee
		}

		if p.Payment < requiredFee {
			return fmt.Errorf("%w: required %d stroops, supplied %d", contract.ErrInsufficientFee, requiredFee, p.Payment)
		}

		ledger := f.newLedger(s)
		if err := ledger.Transfer(ctx, p.Creator, config.Treasury, requiredFee); err != nil {
			return fmt.Errorf("failed to collect creation fee: %w", err)
		}

		deployer := f.newDeployer(s)
		address, err := deployer.Deploy(ctx, p.Name, p.Symbol, p.Decimals)
		if err != nil {
			return fmt.Errorf("%w: %v", contract.ErrDeploymentFailed, err)
		}

		if err := deployer.Mint(ctx, address, p.Creator, p.InitialSupply); err != nil {
			return fmt.Errorf("%w: %v", contract.ErrMintFailed, err)
		}

		registry, err := readRegistry(ctx, s)
		if err != nil {
			return err
		}
		registry = append(registry, contract.TokenRecord{
			Address:     address,
			Creator:     p.Creator,
			Name:        p.Name,
			Symbol:      p.Symbol,
			Decimals:    p.Decimals,
			TotalSupply: p.InitialSupply,
			MetadataURI: p.MetadataURI,
		})
		if err := writeJSON(ctx, s, registryKey, registry); err != nil {
			return err
		}
		registrySize = len(registry)

		if err := appendEvent(ctx, s, EventTokenCreated, map[string]interface{}{
			"address": address,
			"creator": p.Creator,
			"symbol":  p.Symbol,
			"fee":     requiredFee,
			"index":   registrySize - 1,
		}); err != nil {
			return err
		}

		tokenAddress = address
		return nil
	})

	if err != nil {
		f.recordError(err)
		return "", err
	}

	metrics.TokensCreated.Inc()
	metrics.FeesCollected.Add(float64(requiredFee))
	metrics.RegistrySize.Set(float64(registrySize))
	metrics.CreateTokenDuration.Observe(time.Since(start).Seconds())

	slog.Info("✅ Token created",
		"address", tokenAddress,
		"creator", p.Creator,
		"symbol", p.Symbol,
		"fee_collected", requiredFee,
		"registry_index", registrySize-1,
	)
	return tokenAddress, nil
}

// GetState returns the factory config, or ErrNotInitialized if absent
func (f *Factory) GetState(ctx context.Context) (*contract.FactoryConfig, error) {
	var config *contract.FactoryConfig

	err := f.host.Atomic(ctx, func(s host.Store) error {
		c, found, err := readConfig(ctx, s)
		if err != nil {
			return err
		}
		if !found {
			return contract.ErrNotInitialized
		}
		config = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return config, nil
}

// GetTokenCount returns the registry length, zero before any creation
func (f *Factory) GetTokenCount(ctx context.Context) (int, error) {
	count := 0

	err := f.host.Atomic(ctx, func(s host.Store) error {
		registry, err := readRegistry(ctx, s)
		if err != nil {
			return err
		}
		count = len(registry)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetTokenInfo returns the record at the given creation index. An
// out-of-range index is a lookup miss, not an error: found is false.
func (f *Factory) GetTokenInfo(ctx context.Context, index int) (*contract.TokenRecord, bool, error) {
	var record *contract.TokenRecord

	err := f.host.Atomic(ctx, func(s host.Store) error {
		registry, err := readRegistry(ctx, s)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(registry) {
			return nil
		}
		record = &registry[index]
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return record, record != nil, nil
}

// ListTokens returns a page of registry records in creation order, plus the
// total registry length
func (f *Factory) ListTokens(ctx context.Context, limit, offset int) ([]contract.TokenRecord, int, error) {
	var page []contract.TokenRecord
	total := 0

	err := f.host.Atomic(ctx, func(s host.Store) error {
		registry, err := readRegistry(ctx, s)
		if err != nil {
			return err
		}
		total = len(registry)

		if offset >= total {
			page = []contract.TokenRecord{}
			return nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		page = append([]contract.TokenRecord{}, registry[offset:end]...)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return page, total, nil
}

// validateCreateParams enforces the parameter rules of create_token.
// Violations all map to ErrInvalidParameters, checked name first.
func validateCreateParams(p CreateTokenParams) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", contract.ErrInvalidParameters)
	}
	if p.Symbol == "" {
		return fmt.Errorf("%w: symbol must not be empty", contract.ErrInvalidParameters)
	}
	if len(p.Symbol) > contract.MaxSymbolLength {
		return fmt.Errorf("%w: symbol must be at most %d characters", contract.ErrInvalidParameters, contract.MaxSymbolLength)
	}
	if p.Decimals > contract.MaxDecimals {
		return fmt.Errorf("%w: decimals must be at most %d", contract.ErrInvalidParameters, contract.MaxDecimals)
	}
	if p.InitialSupply <= 0 {
		return fmt.Errorf("%w: initial supply must be positive", contract.ErrInvalidParameters)
	}
	if !contract.IsAccountAddress(p.Creator) {
		return fmt.Errorf("%w: creator is not a valid account address", contract.ErrInvalidParameters)
	}
	if p.MetadataURI != nil && *p.MetadataURI == "" {
		return fmt.Errorf("%w: metadata URI must not be empty when supplied", contract.ErrInvalidParameters)
	}
	return nil
}

// recordError bumps the error counter with the contract error kind
func (f *Factory) recordError(err error) {
	kind := contract.Kind(err)
	if kind == "" {
		kind = "INTERNAL"
	}
	metrics.ErrorsTotal.WithLabelValues(kind).Inc()
}

func readConfig(ctx context.Context, s host.Store) (*contract.FactoryConfig, bool, error) {
	value, found, err := s.Get(ctx, Namespace, configKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read factory config: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var config contract.FactoryConfig
	if err := json.Unmarshal(value, &config); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal factory config: %w", err)
	}

	return &config, true, nil
}

func readRegistry(ctx context.Context, s host.Store) ([]contract.TokenRecord, error) {
	value, found, err := s.Get(ctx, Namespace, registryKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	if !found {
		return nil, nil
	}

	var registry []contract.TokenRecord
	if err := json.Unmarshal(value, &registry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry: %w", err)
	}

	return registry, nil
}

func writeJSON(ctx context.Context, s host.Store, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.Put(ctx, Namespace, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
