// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/chains/atomic"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/precompiletest"
	"github.com/ava-labs/sharedmemory/snow/snowtest"
	"github.com/ava-labs/sharedmemory/utils"
	"github.com/ava-labs/sharedmemory/vms/components/avax"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

var (
	// The precompile runs on the C-Chain and exchanges UTXOs with the
	// X-Chain.
	chainID     = snowtest.CChainID
	peerChainID = snowtest.XChainID
	avaxAssetID = snowtest.AVAXAssetID
	otherAsset  = ids.ID{'o', 't', 'h', 'e', 'r', 'a', 's', 's', 'e', 't'}

	testTxHash = common.Hash{'t', 'x'}
	caller     = common.Address{'c', 'a', 'l', 'l', 'e', 'r'}
	recipient  = common.Address{'r', 'e', 'c', 'i', 'p', 'i', 'e', 'n', 't'}
)

func newKey(t testing.TB) (*ecdsa.PrivateKey, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

// inboundUTXO returns a UTXO the peer chain exported to the chain under test.
func inboundUTXO(outputIndex uint32, assetID ids.ID, amount uint64, locktime uint64, threshold uint32, owners ...common.Address) *avax.UTXO {
	addrs := make([]ids.ShortID, len(owners))
	for i, owner := range owners {
		addrs[i] = ids.ShortID(owner)
	}
	utils.Sort(addrs)
	return &avax.UTXO{
		UTXOID: avax.UTXOID{
			TxID:        ids.ID{'i', 'n', 'b', 'o', 'u', 'n', 'd'},
			OutputIndex: outputIndex,
		},
		Asset: avax.Asset{ID: assetID},
		Out: &secp256k1fx.TransferOutput{
			Amt: amount,
			OutputOwners: secp256k1fx.OutputOwners{
				Locktime:  locktime,
				Threshold: threshold,
				Addrs:     addrs,
			},
		},
	}
}

// exportedUTXO returns the UTXO the chain under test produces when [caller]
// exports during the transaction [testTxHash].
func exportedUTXO(outputIndex uint32, assetID ids.ID, amount uint64, locktime uint64, threshold uint32, owners ...common.Address) *avax.UTXO {
	utxo := inboundUTXO(outputIndex, assetID, amount, locktime, threshold, owners...)
	utxo.TxID = ExportTxID(chainID, testTxHash, caller)
	return utxo
}

func utxoID(t testing.TB, utxo *avax.UTXO) ids.ID {
	id, err := utxo.ComputeID()
	require.NoError(t, err)
	return id
}

// putInboundUTXO accepts [utxo] into shared memory as an export of the peer
// chain.
func putInboundUTXO(t testing.TB, env *precompiletest.Env, utxo *avax.UTXO) {
	id := utxoID(t, utxo)
	utxoBytes, err := utxo.Bytes()
	require.NoError(t, err)

	peerSharedMemory := env.Snow.Context(peerChainID).SharedMemory
	require.NoError(t, peerSharedMemory.Apply(map[ids.ID]*atomic.Requests{
		chainID: {PutRequests: []*atomic.Element{{
			Key:    id[:],
			Value:  utxoBytes,
			Traits: utxo.Out.Addresses(),
		}}},
	}))
}

// requireNoAtomicOps checks that the execution left no pending shared memory
// operations.
func requireNoAtomicOps(t testing.TB, env *precompiletest.Env) {
	ops, err := env.UTXOs.AtomicOps()
	require.NoError(t, err)
	require.Empty(t, ops)
}

func mustImportGas(t testing.TB, numChunks uint64) uint64 {
	gas, err := ImportGas(numChunks)
	require.NoError(t, err)
	return gas
}
