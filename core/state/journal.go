// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// journalEntry is a modification of the state that can be undone.
type journalEntry interface {
	revert(s *StateDB)
}

type journal struct {
	entries []journalEntry
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int {
	return len(j.entries)
}

// revert undoes every entry appended after [snapshot], newest first.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) reset() {
	j.entries = nil
}

type (
	balanceChange struct {
		addr common.Address
		prev *uint256.Int
		// set if the balance was only loaded from the database
		wasClean bool
	}
	multiCoinChange struct {
		key      multiCoinKey
		prev     *big.Int
		wasClean bool
	}
	nonceChange struct {
		addr     common.Address
		prev     uint64
		wasClean bool
	}
	storageChange struct {
		key      storageKey
		prev     common.Hash
		wasClean bool
	}
	transientStorageChange struct {
		key  storageKey
		prev common.Hash
	}
	addLogChange struct{}
)

func (ch balanceChange) revert(s *StateDB) {
	if ch.wasClean {
		delete(s.balances, ch.addr)
		return
	}
	s.balances[ch.addr] = ch.prev
}

func (ch multiCoinChange) revert(s *StateDB) {
	if ch.wasClean {
		delete(s.multiCoinBalances, ch.key)
		return
	}
	s.multiCoinBalances[ch.key] = ch.prev
}

func (ch nonceChange) revert(s *StateDB) {
	if ch.wasClean {
		delete(s.nonces, ch.addr)
		return
	}
	s.nonces[ch.addr] = ch.prev
}

func (ch storageChange) revert(s *StateDB) {
	if ch.wasClean {
		delete(s.storage, ch.key)
		return
	}
	s.storage[ch.key] = ch.prev
}

func (ch transientStorageChange) revert(s *StateDB) {
	if ch.prev == (common.Hash{}) {
		delete(s.transientStorage, ch.key)
		return
	}
	s.transientStorage[ch.key] = ch.prev
}

func (addLogChange) revert(s *StateDB) {
	s.logs = s.logs[:len(s.logs)-1]
	s.logSize--
}
