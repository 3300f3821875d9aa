// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"bytes"
	"errors"
	"sync"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/hashing"
)

var (
	errSameChain     = errors.New("shared memory with self is not supported")
	errTooManyTraits = errors.New("too many traits")
)

type rcLock struct {
	lock  sync.Mutex
	count int
}

// Memory is the shared memory of every chain in a subnet. Each pair of chains
// owns a disjoint key space of the underlying database.
type Memory struct {
	lock  sync.Mutex
	locks map[ids.ID]*rcLock
	db    database.Database
}

func NewMemory(db database.Database) *Memory {
	return &Memory{
		db:    db,
		locks: make(map[ids.ID]*rcLock),
	}
}

func (m *Memory) NewSharedMemory(chainID ids.ID) SharedMemory {
	return &sharedMemory{
		m:           m,
		thisChainID: chainID,
	}
}

// GetSharedDatabase returns and locks the provided DB
//
// Invariant: ReleaseSharedDatabase must be called after to free the database
// associated with [sharedID]
func (m *Memory) GetSharedDatabase(db database.Database, sharedID ids.ID) database.Database {
	lock := m.makeLock(sharedID)
	lock.Lock()
	return prefixdb.NewNested(sharedID[:], db)
}

// ReleaseSharedDatabase unlocks the provided DB
//
// Note: ReleaseSharedDatabase must be called only after a corresponding call
// to GetSharedDatabase. If ReleaseSharedDatabase is called without a
// corresponding call to GetSharedDatabase, it will panic.
func (m *Memory) ReleaseSharedDatabase(sharedID ids.ID) {
	lock := m.releaseLock(sharedID)
	lock.Unlock()
}

// makeLock returns the lock associated with [sharedID], or creates a new one
// if it doesn't exist yet, and increments the reference count.
func (m *Memory) makeLock(sharedID ids.ID) *sync.Mutex {
	m.lock.Lock()
	defer m.lock.Unlock()

	rc, exists := m.locks[sharedID]
	if !exists {
		rc = &rcLock{}
		m.locks[sharedID] = rc
	}
	rc.count++
	return &rc.lock
}

// releaseLock returns the lock associated with [sharedID] and decrements its
// reference count. If this brings the count to 0, it will remove the lock from
// the internal map of locks. If there is no lock associated with [sharedID],
// releaseLock will panic.
func (m *Memory) releaseLock(sharedID ids.ID) *sync.Mutex {
	m.lock.Lock()
	defer m.lock.Unlock()

	rc, exists := m.locks[sharedID]
	if !exists {
		panic("attempting to free an unknown lock")
	}
	rc.count--
	if rc.count == 0 {
		delete(m.locks, sharedID)
	}
	return &rc.lock
}

// sharedID calculates the ID of the shared memory space
func sharedID(id1, id2 ids.ID) ids.ID {
	// Swap IDs locally to ensure id1 <= id2.
	if bytes.Compare(id1[:], id2[:]) == 1 {
		id1, id2 = id2, id1
	}
	return hashing.ComputeHash256Ranges(id1[:], id2[:])
}

// WriteAll writes all of the batches to the underlying database of baseBatch.
// Assumes all batches have the same underlying database.
func WriteAll(baseBatch database.Batch, batches ...database.Batch) error {
	baseBatch = baseBatch.Inner()
	// Replay the inner batches onto [baseBatch] so that it includes all DB
	// operations as they would be applied to the base database.
	for _, batch := range batches {
		batch = batch.Inner()
		if err := batch.Replay(baseBatch); err != nil {
			return err
		}
	}
	// Write all of the combined operations atomically.
	return baseBatch.Write()
}
