// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package precompiletest

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/core/state"
	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/plugin/evm/atomic"
	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/precompile/modules"
	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/snow/snowtest"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

// Env is the state a precompile test executes against. The chain under test
// shares atomic memory with the other chains of [Snow].
type Env struct {
	Snow    *snowtest.Environment
	SnowCtx *snow.Context
	State   *state.StateDB
	UTXOs   *atomic.Store
}

// NewEnv returns an empty environment for [chainID].
func NewEnv(t testing.TB, chainID ids.ID) *Env {
	snowEnv := snowtest.NewEnvironment(t)
	snowCtx := snowEnv.Context(chainID)
	return &Env{
		Snow:    snowEnv,
		SnowCtx: snowCtx,
		State:   state.New(memdb.New()),
		UTXOs:   atomic.NewStore(snowCtx.SharedMemory),
	}
}

// PrecompileTest is a test case for a precompile
type PrecompileTest struct {
	// Caller is the address of the precompile caller
	Caller common.Address
	// Input the raw input bytes to the precompile
	Input []byte
	// InputFn is a function that returns the raw input bytes to the precompile
	// If specified, Input will be ignored.
	InputFn func(t testing.TB, env *Env) []byte
	// SuppliedGas is the amount of gas supplied to the precompile
	SuppliedGas uint64
	// ReadOnly is whether the precompile should be called in read only
	// mode. If true, the precompile should not modify the state.
	ReadOnly bool
	// Config is the config to use for the precompile
	// It should be the same precompile config that is used in the
	// precompile's configurator.
	// If nil, Configure will not be called.
	Config precompileconfig.Config
	// TxHash is the hash of the transaction calling the precompile.
	TxHash common.Hash
	// PredicatesFn returns the predicates the transaction declares for the
	// precompile address.
	PredicatesFn func(t testing.TB, env *Env) []predicate.Predicate
	// BeforeHook is called before the precompile is called.
	BeforeHook func(t testing.TB, env *Env)
	// AfterHook is called after the precompile is called.
	AfterHook func(t testing.TB, env *Env)
	// ExpectedRes is the expected raw byte result returned by the precompile
	ExpectedRes []byte
	// ExpectedErr is the expected error returned by the precompile
	ExpectedErr error
	// BlockNumber is the block number to use for the precompile's block context
	BlockNumber int64
	// Timestamp is the timestamp to use for the precompile's block context
	Timestamp uint64
}

type blockContext struct {
	number    *big.Int
	timestamp uint64
}

func (b *blockContext) Number() *big.Int {
	return b.number
}

func (b *blockContext) Timestamp() uint64 {
	return b.timestamp
}

type accessibleState struct {
	env          *Env
	blockContext contract.BlockContext
}

func (a *accessibleState) GetStateDB() contract.StateDB {
	return a.env.State
}

func (a *accessibleState) GetBlockContext() contract.BlockContext {
	return a.blockContext
}

func (a *accessibleState) GetSnowContext() *snow.Context {
	return a.env.SnowCtx
}

func (a *accessibleState) GetUTXOStore() contract.UTXOStore {
	return a.env.UTXOs
}

// Run executes the test against [env]. The supplied gas is expected to be
// consumed in full.
func (test PrecompileTest) Run(t testing.TB, module modules.Module, env *Env) {
	contractAddress := module.Address

	if test.BeforeHook != nil {
		test.BeforeHook(t, env)
	}

	blockCtx := &blockContext{
		number:    big.NewInt(test.BlockNumber),
		timestamp: test.Timestamp,
	}
	if test.Config != nil {
		require.NoError(t, module.Configure(test.Config, env.State, blockCtx))
	}

	var predicates []predicate.Predicate
	if test.PredicatesFn != nil {
		predicates = test.PredicatesFn(t, env)
	}
	env.State.Prepare(test.TxHash, 0, map[common.Address][]predicate.Predicate{
		contractAddress: predicates,
	})

	input := test.Input
	if test.InputFn != nil {
		input = test.InputFn(t, env)
	}

	if input != nil {
		accessible := &accessibleState{
			env:          env,
			blockContext: blockCtx,
		}
		ret, remainingGas, err := module.Contract.Run(accessible, test.Caller, contractAddress, input, test.SuppliedGas, test.ReadOnly)
		require.ErrorIs(t, err, test.ExpectedErr)
		require.Zero(t, remainingGas)
		require.Equal(t, test.ExpectedRes, ret)
	}

	if test.AfterHook != nil {
		test.AfterHook(t, env)
	}
}

// RunPrecompileTests runs every test in a fresh environment for [chainID].
func RunPrecompileTests(t *testing.T, module modules.Module, chainID ids.ID, tests map[string]PrecompileTest) {
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.Run(t, module, NewEnv(t, chainID))
		})
	}
}
