// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/ids"
)

func TestSharedMemory(t *testing.T) {
	chainID0 := ids.GenerateTestID()
	chainID1 := ids.GenerateTestID()

	for _, test := range SharedMemoryTests {
		baseDB := memdb.New()

		memoryDB := prefixdb.New([]byte{0}, baseDB)
		testDB := prefixdb.New([]byte{1}, baseDB)

		m := NewMemory(memoryDB)

		sm0 := m.NewSharedMemory(chainID0)
		sm1 := m.NewSharedMemory(chainID1)

		test(t, chainID0, chainID1, sm0, sm1, testDB)
	}
}

func TestSharedID(t *testing.T) {
	require := require.New(t)

	chainID0 := ids.GenerateTestID()
	chainID1 := ids.GenerateTestID()

	require.Equal(sharedID(chainID0, chainID1), sharedID(chainID1, chainID0))
	require.NotEqual(sharedID(chainID0, chainID1), sharedID(chainID0, ids.GenerateTestID()))
}

func TestMemoryLocksReleased(t *testing.T) {
	require := require.New(t)

	m := NewMemory(memdb.New())
	chainID0 := ids.GenerateTestID()
	chainID1 := ids.GenerateTestID()
	chainID2 := ids.GenerateTestID()

	sm0 := m.NewSharedMemory(chainID0)
	require.NoError(sm0.Apply(map[ids.ID]*Requests{
		chainID1: {PutRequests: []*Element{{Key: []byte{0}, Value: []byte{1}}}},
		chainID2: {PutRequests: []*Element{{Key: []byte{0}, Value: []byte{1}}}},
	}))
	require.Empty(m.locks)

	require.Panics(func() {
		m.ReleaseSharedDatabase(ids.GenerateTestID())
	})
}

func TestDBElementCodec(t *testing.T) {
	require := require.New(t)

	elem := &dbElement{
		Value:  []byte{1, 2},
		Traits: [][]byte{{3}, {4, 5}},
	}
	b, err := Codec.Marshal(codecVersion, elem)
	require.NoError(err)

	parsed := &dbElement{}
	_, err = Codec.Unmarshal(b, parsed)
	require.NoError(err)
	require.Equal(elem, parsed)
}
