// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/ids"
)

// SharedMemoryTests is a list of all shared memory tests
var SharedMemoryTests = []func(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, db database.Database){
	TestSharedMemoryPutAndGet,
	TestSharedMemoryGetMissing,
	TestSharedMemoryRemoveMissing,
	TestSharedMemoryDuplicatedPut,
	TestSharedMemoryPutAndRemove,
	TestSharedMemoryDirectionality,
	TestSharedMemoryIndexed,
	TestSharedMemoryIndexedPagination,
	TestSharedMemoryAtomicFailure,
	TestSharedMemoryCommitOnPut,
	TestSharedMemoryCommitOnRemove,
	TestSharedMemoryRejectsSelf,
}

func TestSharedMemoryPutAndGet(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, _ database.Database) {
	require := require.New(t)

	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{{
		Key:   []byte{0},
		Value: []byte{1},
	}}}}))

	values, err := sm1.Get(chainID0, [][]byte{{0}})
	require.NoError(err)
	require.Equal([][]byte{{1}}, values)
}

func TestSharedMemoryGetMissing(t *testing.T, chainID0, _ ids.ID, _, sm1 SharedMemory, _ database.Database) {
	_, err := sm1.Get(chainID0, [][]byte{{0}})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestSharedMemoryRemoveMissing(t *testing.T, chainID0, _ ids.ID, _, sm1 SharedMemory, _ database.Database) {
	err := sm1.Apply(map[ids.ID]*Requests{chainID0: {RemoveRequests: [][]byte{{0}}}})
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestSharedMemoryDuplicatedPut(t *testing.T, _, chainID1 ids.ID, sm0, _ SharedMemory, _ database.Database) {
	require := require.New(t)

	elem := &Element{
		Key:   []byte{0},
		Value: []byte{1},
	}
	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{elem}}}))

	err := sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{elem}}})
	require.ErrorIs(err, errDuplicatedOperation)
}

func TestSharedMemoryPutAndRemove(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, _ database.Database) {
	require := require.New(t)

	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{{
		Key:    []byte{0},
		Value:  []byte{1},
		Traits: [][]byte{{2}},
	}}}}))

	require.NoError(sm1.Apply(map[ids.ID]*Requests{chainID0: {RemoveRequests: [][]byte{{0}}}}))

	_, err := sm1.Get(chainID0, [][]byte{{0}})
	require.ErrorIs(err, database.ErrNotFound)

	values, _, _, err := sm1.Indexed(chainID0, [][]byte{{2}}, nil, nil, 10)
	require.NoError(err)
	require.Empty(values)

	// A consumed value can not be consumed again.
	err = sm1.Apply(map[ids.ID]*Requests{chainID0: {RemoveRequests: [][]byte{{0}}}})
	require.ErrorIs(err, database.ErrNotFound)
}

func TestSharedMemoryDirectionality(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, _ database.Database) {
	require := require.New(t)

	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{{
		Key:   []byte{0},
		Value: []byte{1},
	}}}}))

	// The sender can't read its own outbound values.
	_, err := sm0.Get(chainID1, [][]byte{{0}})
	require.ErrorIs(err, database.ErrNotFound)

	// The sender can't consume its own outbound values.
	err = sm0.Apply(map[ids.ID]*Requests{chainID1: {RemoveRequests: [][]byte{{0}}}})
	require.ErrorIs(err, database.ErrNotFound)

	// The same key may flow in the opposite direction.
	require.NoError(sm1.Apply(map[ids.ID]*Requests{chainID0: {PutRequests: []*Element{{
		Key:   []byte{0},
		Value: []byte{2},
	}}}}))

	values, err := sm0.Get(chainID1, [][]byte{{0}})
	require.NoError(err)
	require.Equal([][]byte{{2}}, values)
}

func TestSharedMemoryIndexed(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, _ database.Database) {
	require := require.New(t)

	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{
		{
			Key:    []byte{0},
			Value:  []byte{10},
			Traits: [][]byte{{1}, {2}},
		},
		{
			Key:    []byte{1},
			Value:  []byte{11},
			Traits: [][]byte{{2}},
		},
		{
			Key:    []byte{2},
			Value:  []byte{12},
			Traits: [][]byte{{3}},
		},
	}}}))

	values, lastTrait, lastKey, err := sm1.Indexed(chainID0, [][]byte{{2}, {1}}, nil, nil, 10)
	require.NoError(err)
	// Keys shared by multiple traits are only returned once.
	require.Equal([][]byte{{10}, {11}}, values)
	require.Equal([]byte{2}, lastTrait)
	require.Equal([]byte{1}, lastKey)

	values, _, _, err = sm1.Indexed(chainID0, [][]byte{{4}}, nil, nil, 10)
	require.NoError(err)
	require.Empty(values)
}

func TestSharedMemoryIndexedPagination(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, _ database.Database) {
	require := require.New(t)

	elems := make([]*Element, 5)
	for i := range elems {
		elems[i] = &Element{
			Key:    []byte{byte(i)},
			Value:  []byte{byte(i + 10)},
			Traits: [][]byte{{7}},
		}
	}
	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: elems}}))

	var (
		all       [][]byte
		lastTrait []byte
		lastKey   []byte
	)
	for {
		values, trait, key, err := sm1.Indexed(chainID0, [][]byte{{7}}, lastTrait, lastKey, 2)
		require.NoError(err)
		if len(values) == 0 {
			break
		}
		require.LessOrEqual(len(values), 2)
		all = append(all, values...)
		lastTrait, lastKey = trait, key
	}
	require.Equal([][]byte{{10}, {11}, {12}, {13}, {14}}, all)
}

func TestSharedMemoryAtomicFailure(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, db database.Database) {
	require := require.New(t)

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte{9}, []byte{9}))

	// The remove fails, so neither the put nor the batch may be written.
	err := sm0.Apply(
		map[ids.ID]*Requests{chainID1: {
			PutRequests: []*Element{{
				Key:   []byte{0},
				Value: []byte{1},
			}},
			RemoveRequests: [][]byte{{5}},
		}},
		batch,
	)
	require.ErrorIs(err, database.ErrNotFound)

	_, err = sm1.Get(chainID0, [][]byte{{0}})
	require.ErrorIs(err, database.ErrNotFound)

	has, err := db.Has([]byte{9})
	require.NoError(err)
	require.False(has)
}

func TestSharedMemoryCommitOnPut(t *testing.T, _, chainID1 ids.ID, sm0, _ SharedMemory, db database.Database) {
	require := require.New(t)

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte{1}, []byte{2}))

	require.NoError(sm0.Apply(
		map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{{
			Key:   []byte{0},
			Value: []byte{1},
		}}}},
		batch,
	))

	value, err := db.Get([]byte{1})
	require.NoError(err)
	require.Equal([]byte{2}, value)
}

func TestSharedMemoryCommitOnRemove(t *testing.T, chainID0, chainID1 ids.ID, sm0, sm1 SharedMemory, db database.Database) {
	require := require.New(t)

	require.NoError(sm0.Apply(map[ids.ID]*Requests{chainID1: {PutRequests: []*Element{{
		Key:   []byte{0},
		Value: []byte{1},
	}}}}))

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte{1}, []byte{2}))

	require.NoError(sm1.Apply(
		map[ids.ID]*Requests{chainID0: {RemoveRequests: [][]byte{{0}}}},
		batch,
	))

	value, err := db.Get([]byte{1})
	require.NoError(err)
	require.Equal([]byte{2}, value)
}

func TestSharedMemoryRejectsSelf(t *testing.T, chainID0, _ ids.ID, sm0, _ SharedMemory, _ database.Database) {
	err := sm0.Apply(map[ids.ID]*Requests{chainID0: {PutRequests: []*Element{{
		Key:   []byte{0},
		Value: []byte{1},
	}}}})
	require.ErrorIs(t, err, errSameChain)
}
