// Package token implements the token template deployer the factory invokes
// to create new token instances. Each instance lives under its own storage
// namespace keyed by its contract address.
package token

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stellar/go/strkey"

	"tokenfactory/internal/host"
)

// Deployer is the entry point surface the factory consumes: deploy a new
// instance, then mint its initial supply.
type Deployer interface {
	// Deploy creates a new token instance and returns its contract address
	Deploy(ctx context.Context, name, symbol string, decimals uint32) (string, error)

	// Mint credits amount of the token at tokenAddress to the recipient
	Mint(ctx context.Context, tokenAddress, to string, amount int64) error
}

// Instance is the stored state of a deployed token template
type Instance struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint32 `json:"decimals"`
	TotalSupply int64  `json:"total_supply"`
}

const metaKey = "meta"

// TemplateDeployer deploys token instances into the host store. Contract
// addresses are derived Soroban-style: SHA-256 over the network passphrase
// and a random salt, encoded as a C... strkey.
type TemplateDeployer struct {
	store             host.Store
	networkPassphrase string
}

// NewTemplateDeployer creates a deployer bound to one invocation store view
func NewTemplateDeployer(store host.Store, networkPassphrase string) *TemplateDeployer {
	return &TemplateDeployer{
		store:             store,
		networkPassphrase: networkPassphrase,
	}
}

// Deploy creates a fresh token instance with zero supply
func (d *TemplateDeployer) Deploy(ctx context.Context, name, symbol string, decimals uint32) (string, error) {
	address, err := d.deriveAddress()
	if err != nil {
		return "", err
	}

	// A salt collision would mean overwriting a live token instance
	exists, err := d.store.Has(ctx, address, metaKey)
	if err != nil {
		return "", fmt.Errorf("failed to check token namespace: %w", err)
	}
	if exists {
		return "", fmt.Errorf("token address collision: %s", address)
	}

	instance := Instance{
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}

	if err := d.putInstance(ctx, address, &instance); err != nil {
		return "", err
	}

	return address, nil
}

// Mint credits amount to the recipient and bumps the total supply
func (d *TemplateDeployer) Mint(ctx context.Context, tokenAddress, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("mint amount must be positive, got %d", amount)
	}

	instance, found, err := d.instance(ctx, tokenAddress)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("token %s is not deployed", tokenAddress)
	}

	balance, err := d.BalanceOf(ctx, tokenAddress, to)
	if err != nil {
		return err
	}

	instance.TotalSupply += amount
	if err := d.putInstance(ctx, tokenAddress, instance); err != nil {
		return err
	}

	value := []byte(strconv.FormatInt(balance+amount, 10))
	if err := d.store.Put(ctx, tokenAddress, "balance:"+to, value); err != nil {
		return fmt.Errorf("failed to write token balance: %w", err)
	}

	return nil
}

// BalanceOf returns the holder's balance of the token, zero if absent
func (d *TemplateDeployer) BalanceOf(ctx context.Context, tokenAddress, holder string) (int64, error) {
	value, found, err := d.store.Get(ctx, tokenAddress, "balance:"+holder)
	if err != nil {
		return 0, fmt.Errorf("failed to read token balance: %w", err)
	}
	if !found {
		return 0, nil
	}

	balance, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token balance: %w", err)
	}

	return balance, nil
}

func (d *TemplateDeployer) instance(ctx context.Context, tokenAddress string) (*Instance, bool, error) {
	value, found, err := d.store.Get(ctx, tokenAddress, metaKey)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read token instance: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var instance Instance
	if err := json.Unmarshal(value, &instance); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal token instance: %w", err)
	}

	return &instance, true, nil
}

func (d *TemplateDeployer) putInstance(ctx context.Context, tokenAddress string, instance *Instance) error {
	value, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to marshal token instance: %w", err)
	}

	if err := d.store.Put(ctx, tokenAddress, metaKey, value); err != nil {
		return fmt.Errorf("failed to write token instance: %w", err)
	}

	return nil
}

// deriveAddress builds a contract strkey from the network passphrase and a
// random salt, mirroring how contract IDs are derived on chain.
func (d *TemplateDeployer) deriveAddress() (string, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate address salt: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(d.networkPassphrase))
	h.Write([]byte("token_factory_template"))
	h.Write(salt)

	address, err := strkey.Encode(strkey.VersionByteContract, h.Sum(nil))
	if err != nil {
		return "", fmt.Errorf("failed to encode contract address: %w", err)
	}

	return address, nil
}
