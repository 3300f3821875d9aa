// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

var (
	_ precompileconfig.Config     = (*Config)(nil)
	_ precompileconfig.Predicater = (*Config)(nil)
)

// Config implements the precompileconfig.Config interface and
// adds specific configuration for SharedMemory.
type Config struct {
	precompileconfig.Upgrade
}

// NewConfig returns a config for a network upgrade at [blockTimestamp] that enables
// SharedMemory.
func NewConfig(blockTimestamp *uint64) *Config {
	return &Config{
		Upgrade: precompileconfig.Upgrade{BlockTimestamp: blockTimestamp},
	}
}

// NewDisableConfig returns config for a network upgrade at [blockTimestamp]
// that disables SharedMemory.
func NewDisableConfig(blockTimestamp *uint64) *Config {
	return &Config{
		Upgrade: precompileconfig.Upgrade{
			BlockTimestamp: blockTimestamp,
			Disable:        true,
		},
	}
}

// Key returns the key for the SharedMemory precompileconfig.
// This should be the same key as used in the precompile module.
func (*Config) Key() string { return ConfigKey }

// Verify tries to verify Config and returns an error accordingly.
func (*Config) Verify() error { return nil }

// Equal returns true if [s] is a [*Config] and it has been configured identical to [c].
func (c *Config) Equal(s precompileconfig.Config) bool {
	// typecast before comparison
	other, ok := (s).(*Config)
	if !ok {
		return false
	}
	return c.Upgrade.Equal(&other.Upgrade)
}

// PredicateGas returns the amount of gas necessary to verify the predicate
// PredicateGas charges for:
// 1. Base cost of the predicate
// 2. Number of storage keys the predicate occupies
// 3. Number of signatures to recover
//
// If the predicate fails parsing, return a non-nil error invalidating the transaction.
func (*Config) PredicateGas(pred predicate.Predicate) (uint64, error) {
	cred, err := ParsePredicate(pred)
	if err != nil {
		return 0, err
	}

	chunksGas, overflow := math.SafeMul(GasCostPerPredicateChunk, pred.NumChunks())
	if overflow {
		return 0, fmt.Errorf("overflow calculating gas cost for %d predicate chunks", pred.NumChunks())
	}
	totalGas, overflow := math.SafeAdd(PredicateGasBase, chunksGas)
	if overflow {
		return 0, fmt.Errorf("overflow adding gas cost for %d predicate chunks", pred.NumChunks())
	}
	signaturesGas, overflow := math.SafeMul(GasCostPerSignatureVerification, uint64(len(cred.Sigs)))
	if overflow {
		return 0, fmt.Errorf("overflow calculating gas cost for %d signatures", len(cred.Sigs))
	}
	totalGas, overflow = math.SafeAdd(totalGas, signaturesGas)
	if overflow {
		return 0, fmt.Errorf("overflow adding signature gas (PrevTotal: %d, VerificationGas: %d)", totalGas, signaturesGas)
	}
	return totalGas, nil
}

// VerifyPredicate checks that [pred] is well formed. Whether its signatures
// authorize an import is decided when the import executes.
func (*Config) VerifyPredicate(_ *precompileconfig.PredicateContext, pred predicate.Predicate) error {
	cred, err := ParsePredicate(pred)
	if err != nil {
		return err
	}
	if err := cred.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPredicate, err)
	}
	return nil
}
