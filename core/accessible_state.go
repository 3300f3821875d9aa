// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"math/big"

	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/snow"
)

var (
	_ contract.AccessibleState = (*accessibleState)(nil)
	_ contract.BlockContext    = (*blockContext)(nil)
)

type accessibleState struct {
	stateDB      contract.StateDB
	blockContext contract.BlockContext
	snowCtx      *snow.Context
	utxos        contract.UTXOStore
}

func (a *accessibleState) GetStateDB() contract.StateDB {
	return a.stateDB
}

func (a *accessibleState) GetBlockContext() contract.BlockContext {
	return a.blockContext
}

func (a *accessibleState) GetSnowContext() *snow.Context {
	return a.snowCtx
}

func (a *accessibleState) GetUTXOStore() contract.UTXOStore {
	return a.utxos
}

type blockContext struct {
	number    uint64
	timestamp uint64
}

func (b *blockContext) Number() *big.Int {
	return new(big.Int).SetUint64(b.number)
}

func (b *blockContext) Timestamp() uint64 {
	return b.timestamp
}
