// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Defines the stateless interface for unmarshalling an arbitrary config of a precompile
package precompileconfig

import (
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

// Config is the interface for a precompile's configuration.
type Config interface {
	// Key returns the unique key for the stateful precompile.
	Key() string
	// Timestamp returns the timestamp at which this stateful precompile should be enabled.
	// 1) 0 indicates that the precompile should be enabled from genesis.
	// 2) n indicates that the precompile should be enabled in the first block with timestamp >= [n].
	// 3) nil indicates that the precompile is never enabled.
	Timestamp() *uint64
	// IsDisabled returns true if this network upgrade should disable the precompile.
	IsDisabled() bool
	// Equal returns true if the provided argument configures the same precompile with the same parameters.
	Equal(Config) bool
	// Verify is called on startup and an error is treated as fatal. Configure can assume the Config has passed verification.
	Verify() error
}

// PredicateContext is the context passed in to the Predicater interface to verify
// a precompile predicate within a specific execution context.
type PredicateContext struct {
	SnowCtx *snow.Context
}

// Predicater is an optional interface for StatefulPrecompileContracts to implement.
// If implemented, the predicate will be enforced on every transaction in a block, prior to the block's execution.
// If VerifyPredicate returns an error, the transaction is invalid and the block is rejected.
type Predicater interface {
	PredicateGas(pred predicate.Predicate) (uint64, error)
	VerifyPredicate(predicateContext *PredicateContext, pred predicate.Predicate) error
}

// IsForkTransition returns true if [fork] activates between [parent] and
// [current].
func IsForkTransition(fork *uint64, parent *uint64, current uint64) bool {
	var parentForked bool
	if parent != nil {
		parentForked = IsTimestampForked(fork, *parent)
	}
	currentForked := IsTimestampForked(fork, current)
	return !parentForked && currentForked
}

// IsTimestampForked returns whether a fork scheduled at timestamp [fork] is
// active at [timestamp].
func IsTimestampForked(fork *uint64, timestamp uint64) bool {
	if fork == nil {
		return false
	}
	return *fork <= timestamp
}
