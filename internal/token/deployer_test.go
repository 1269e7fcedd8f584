package token

import (
	"context"
	"strings"
	"testing"

	"github.com/stellar/go/strkey"

	"tokenfactory/internal/host"
)

const testPassphrase = "Test SDF Network ; September 2015"

func TestTemplateDeployer_Deploy(t *testing.T) {
	h := host.NewMemoryHost()
	ctx := context.Background()

	err := h.Atomic(ctx, func(s host.Store) error {
		d := NewTemplateDeployer(s, testPassphrase)

		address, err := d.Deploy(ctx, "Test Token", "TEST", 7)
		if err != nil {
			return err
		}

		if !strings.HasPrefix(address, "C") {
			t.Errorf("Expected contract address starting with C, got: %s", address)
		}
		if _, err := strkey.Decode(strkey.VersionByteContract, address); err != nil {
			t.Errorf("Expected valid contract strkey, got: %v", err)
		}

		instance, found, err := d.instance(ctx, address)
		if err != nil {
			return err
		}
		if !found {
			t.Fatal("Expected deployed instance to be stored")
		}
		if instance.Name != "Test Token" || instance.Symbol != "TEST" || instance.Decimals != 7 {
			t.Errorf("Unexpected instance state: %+v", instance)
		}
		if instance.TotalSupply != 0 {
			t.Errorf("Expected zero supply before mint, got: %d", instance.TotalSupply)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestTemplateDeployer_DeployAddressesAreUnique(t *testing.T) {
	h := host.NewMemoryHost()
	ctx := context.Background()

	seen := make(map[string]bool)
	err := h.Atomic(ctx, func(s host.Store) error {
		d := NewTemplateDeployer(s, testPassphrase)
		for i := 0; i < 20; i++ {
			address, err := d.Deploy(ctx, "Token", "TOK", 7)
			if err != nil {
				return err
			}
			if seen[address] {
				t.Errorf("Duplicate token address: %s", address)
			}
			seen[address] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestTemplateDeployer_Mint(t *testing.T) {
	h := host.NewMemoryHost()
	ctx := context.Background()

	err := h.Atomic(ctx, func(s host.Store) error {
		d := NewTemplateDeployer(s, testPassphrase)

		address, err := d.Deploy(ctx, "Test Token", "TEST", 7)
		if err != nil {
			return err
		}

		if err := d.Mint(ctx, address, "GCREATOR", 1_000_000_0000000); err != nil {
			return err
		}

		balance, err := d.BalanceOf(ctx, address, "GCREATOR")
		if err != nil {
			return err
		}
		if balance != 1_000_000_0000000 {
			t.Errorf("Expected minted balance 10000000000000, got: %d", balance)
		}

		instance, _, err := d.instance(ctx, address)
		if err != nil {
			return err
		}
		if instance.TotalSupply != 1_000_000_0000000 {
			t.Errorf("Expected total supply to match mint, got: %d", instance.TotalSupply)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

func TestTemplateDeployer_MintUnknownToken(t *testing.T) {
	h := host.NewMemoryHost()
	ctx := context.Background()

	_ = h.Atomic(ctx, func(s host.Store) error {
		d := NewTemplateDeployer(s, testPassphrase)
		if err := d.Mint(ctx, "CUNKNOWN", "GCREATOR", 100); err == nil {
			t.Error("Expected mint to fail for undeployed token")
		}
		return nil
	})
}

func TestTemplateDeployer_MintRejectsNonPositiveAmount(t *testing.T) {
	h := host.NewMemoryHost()
	ctx := context.Background()

	_ = h.Atomic(ctx, func(s host.Store) error {
		d := NewTemplateDeployer(s, testPassphrase)
		address, err := d.Deploy(ctx, "Test Token", "TEST", 7)
		if err != nil {
			return err
		}
		if err := d.Mint(ctx, address, "GCREATOR", 0); err == nil {
			t.Error("Expected mint of zero to fail")
		}
		if err := d.Mint(ctx, address, "GCREATOR", -5); err == nil {
			t.Error("Expected negative mint to fail")
		}
		return nil
	})
}
