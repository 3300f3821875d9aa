// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package memdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/dbtest"
)

func TestInterface(t *testing.T) {
	for name, test := range dbtest.Tests {
		t.Run(name, func(t *testing.T) {
			test(t, New())
		})
	}
}

func TestCompactKeepsLivePairs(t *testing.T) {
	require := require.New(t)

	db := New()
	for i := 0; i < 10; i++ {
		require.NoError(db.Put([]byte("key"), []byte{byte(i)}))
	}
	require.NoError(db.Put([]byte("gone"), []byte("value")))
	require.NoError(db.Delete([]byte("gone")))
	require.NoError(db.Delete([]byte("never written")))

	before := db.db.Capacity()
	require.NoError(db.Compact(nil, nil))
	require.Less(db.db.Capacity(), before)

	value, err := db.Get([]byte("key"))
	require.NoError(err)
	require.Equal([]byte{9}, value)
	_, err = db.Get([]byte("gone"))
	require.ErrorIs(err, database.ErrNotFound)

	count, err := database.Count(db)
	require.NoError(err)
	require.Equal(1, count)
}

func TestIteratorSnapshot(t *testing.T) {
	require := require.New(t)

	db := New()
	require.NoError(db.Put([]byte("a"), []byte("1")))
	it := db.NewIterator()
	defer it.Release()

	require.NoError(db.Put([]byte("b"), []byte("2")))
	require.NoError(db.Put([]byte("a"), []byte("3")))

	require.True(it.Next())
	require.Equal([]byte("a"), it.Key())
	require.Equal([]byte("1"), it.Value())
	require.False(it.Next())
	require.NoError(it.Error())
}
