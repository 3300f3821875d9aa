// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/database/versiondb"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

func TestMultiCoinOperations(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New())
	addr := common.Address{1}
	assetID := common.Hash{2}

	s.AddBalance(addr, new(uint256.Int))
	require.Zero(s.GetBalanceMultiCoin(addr, assetID).Sign())

	s.AddBalanceMultiCoin(addr, assetID, big.NewInt(10))
	s.SubBalanceMultiCoin(addr, assetID, big.NewInt(5))
	s.AddBalanceMultiCoin(addr, assetID, big.NewInt(3))
	require.Equal(big.NewInt(8), s.GetBalanceMultiCoin(addr, assetID))

	// Overdrafts are recorded and leave the balance untouched.
	s.SubBalanceMultiCoin(addr, assetID, big.NewInt(9))
	require.ErrorIs(s.Error(), errNegativeBalance)
	require.Equal(big.NewInt(8), s.GetBalanceMultiCoin(addr, assetID))
}

func TestStateDBRevertToSnapshot(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New())
	addr := common.Address{1}
	assetID := common.Hash{2}
	slot := common.Hash{3}
	value := common.Hash{4}

	s.AddBalance(addr, uint256.NewInt(10))
	s.AddBalanceMultiCoin(addr, assetID, big.NewInt(10))
	s.SetNonce(addr, 1)

	snapshot := s.Snapshot()
	s.SubBalance(addr, uint256.NewInt(4))
	s.SubBalanceMultiCoin(addr, assetID, big.NewInt(4))
	s.SetNonce(addr, 2)
	s.SetState(addr, slot, value)
	s.SetTransientState(addr, slot, value)
	s.AddLog(addr, []common.Hash{slot}, []byte{1}, 1)

	require.Equal(uint256.NewInt(6), s.GetBalance(addr))
	require.Equal(value, s.GetTransientState(addr, slot))
	require.Len(s.Logs(), 1)

	s.RevertToSnapshot(snapshot)
	require.Equal(uint256.NewInt(10), s.GetBalance(addr))
	require.Equal(big.NewInt(10), s.GetBalanceMultiCoin(addr, assetID))
	require.Equal(uint64(1), s.GetNonce(addr))
	require.Equal(common.Hash{}, s.GetState(addr, slot))
	require.Equal(common.Hash{}, s.GetTransientState(addr, slot))
	require.Empty(s.Logs())

	require.Panics(func() { s.RevertToSnapshot(snapshot + 1) })
}

func TestStateDBCommit(t *testing.T) {
	require := require.New(t)

	baseDB := memdb.New()
	db := versiondb.New(baseDB)
	s := New(db)
	addr := common.Address{1}
	assetID := common.Hash{2}
	slot := common.Hash{3}

	s.AddBalance(addr, uint256.NewInt(10))
	s.AddBalanceMultiCoin(addr, assetID, big.NewInt(7))
	s.SetNonce(addr, 3)
	s.SetState(addr, slot, common.Hash{4})
	s.SetTransientState(addr, slot, common.Hash{5})
	require.NoError(s.Commit(db))
	require.NoError(db.Commit())

	// A fresh view over the same database sees the committed state but none
	// of the transient state.
	reloaded := New(baseDB)
	require.Equal(uint256.NewInt(10), reloaded.GetBalance(addr))
	require.Equal(big.NewInt(7), reloaded.GetBalanceMultiCoin(addr, assetID))
	require.Equal(uint64(3), reloaded.GetNonce(addr))
	require.Equal(common.Hash{4}, reloaded.GetState(addr, slot))
	require.Equal(common.Hash{}, s.GetTransientState(addr, slot))

	// Emptied values are deleted.
	s.SubBalance(addr, uint256.NewInt(10))
	s.SubBalanceMultiCoin(addr, assetID, big.NewInt(7))
	require.NoError(s.Commit(db))
	require.NoError(db.Commit())

	has, err := baseDB.Has(balanceKey(addr))
	require.NoError(err)
	require.False(has)
	has, err = baseDB.Has(multiCoinKey{addr: addr, assetID: assetID}.bytes())
	require.NoError(err)
	require.False(has)
}

func TestStateDBAbort(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	s := New(db)
	addr := common.Address{1}

	s.AddBalance(addr, uint256.NewInt(10))
	s.Abort()
	require.True(s.GetBalance(addr).IsZero())
	require.NoError(s.Commit(db))

	has, err := db.Has(balanceKey(addr))
	require.NoError(err)
	require.False(has)
}

func TestStateDBPrepare(t *testing.T) {
	require := require.New(t)

	s := New(memdb.New())
	addr := common.Address{1}
	txHash := common.Hash{2}
	pred := predicate.New([]byte{1, 2, 3})

	s.Prepare(txHash, 1, map[common.Address][]predicate.Predicate{
		addr: {pred},
	})
	require.Equal(txHash, s.GetTxHash())
	require.Equal([]predicate.Predicate{pred}, s.GetPredicates(addr))
	require.Empty(s.GetPredicates(common.Address{3}))

	s.AddLog(addr, []common.Hash{{5}}, []byte{6}, 7)
	logs := s.Logs()
	require.Len(logs, 1)
	require.Equal(txHash, logs[0].TxHash)
	require.Equal(uint(1), logs[0].TxIndex)
	require.Equal(uint64(7), logs[0].BlockNumber)

	topics, data := s.GetLogData()
	require.Equal([][]common.Hash{{{5}}}, topics)
	require.Equal([][]byte{{6}}, data)

	s.Finalise()
	require.Equal(common.Hash{}, s.GetTxHash())
	require.Empty(s.GetPredicates(addr))

	// Log indices keep increasing across the transactions of a block.
	s.Prepare(common.Hash{8}, 2, nil)
	s.AddLog(addr, nil, nil, 7)
	require.Equal(uint(1), s.Logs()[0].Index)
}
