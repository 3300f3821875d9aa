// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Defines the interface for the configuration and execution of a precompile contract
package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/vms/components/avax"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

// StatefulPrecompiledContract is the interface for executing a precompiled contract
type StatefulPrecompiledContract interface {
	// Run executes the precompiled contract.
	Run(accessibleState AccessibleState, caller common.Address, addr common.Address, input []byte, suppliedGas uint64, readOnly bool) (ret []byte, remainingGas uint64, err error)
}

// StateDB is the interface for accessing EVM state
type StateDB interface {
	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	// Transient storage is discarded at the end of every transaction.
	GetTransientState(common.Address, common.Hash) common.Hash
	SetTransientState(common.Address, common.Hash, common.Hash)

	SetNonce(common.Address, uint64)
	GetNonce(common.Address) uint64

	GetBalance(common.Address) *uint256.Int
	AddBalance(common.Address, *uint256.Int)
	SubBalance(common.Address, *uint256.Int)

	GetBalanceMultiCoin(common.Address, common.Hash) *big.Int
	AddBalanceMultiCoin(common.Address, common.Hash, *big.Int)
	SubBalanceMultiCoin(common.Address, common.Hash, *big.Int)

	AddLog(addr common.Address, topics []common.Hash, data []byte, blockNumber uint64)
	// GetPredicates returns every predicate the current transaction declared
	// for [address] in its access list.
	GetPredicates(address common.Address) []predicate.Predicate
	// GetTxHash returns the hash of the transaction being executed.
	GetTxHash() common.Hash

	Snapshot() int
	RevertToSnapshot(int)
}

// UTXOStore is the view of shared memory a precompile reads and writes while
// executing a transaction. Writes become visible to the peer chain only once
// the block that made them is accepted.
type UTXOStore interface {
	// GetUTXO returns the UTXO [utxoID] that [peerChainID] exported to this
	// chain. Returns database.ErrNotFound if it is absent.
	GetUTXO(peerChainID ids.ID, utxoID ids.ID) (*avax.UTXO, error)
	// AddUTXO exports [utxo] to [peerChainID].
	AddUTXO(peerChainID ids.ID, utxo *avax.UTXO) error
	// DeleteUTXO consumes the UTXO [utxoID] exported by [peerChainID].
	// Returns database.ErrNotFound if it is absent.
	DeleteUTXO(peerChainID ids.ID, utxoID ids.ID) error
}

// AccessibleState defines the interface exposed to stateful precompile contracts
type AccessibleState interface {
	GetStateDB() StateDB
	GetBlockContext() BlockContext
	GetSnowContext() *snow.Context
	GetUTXOStore() UTXOStore
}

// BlockContext defines an interface that provides information to a stateful precompile
// about the block being executed.
type BlockContext interface {
	Number() *big.Int
	Timestamp() uint64
}

type Configurator interface {
	MakeConfig() precompileconfig.Config
	Configure(
		precompileconfig precompileconfig.Config,
		state StateDB,
		blockContext BlockContext,
	) error
}
