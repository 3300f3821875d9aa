// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prefixdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/dbtest"
	"github.com/ava-labs/sharedmemory/database/memdb"
)

func TestInterface(t *testing.T) {
	for name, test := range dbtest.Tests {
		t.Run(name, func(t *testing.T) {
			db := memdb.New()
			test(t, New([]byte("hello"), db))
			test(t, New([]byte("world"), db))
			test(t, New([]byte("wor"), New([]byte("ld"), db)))
			test(t, New([]byte("ld"), New([]byte("wor"), db)))
			test(t, NewNested([]byte("wor"), New([]byte("ld"), db)))
			test(t, NewNested([]byte("ld"), New([]byte("wor"), db)))
		})
	}
}

func TestPartitions(t *testing.T) {
	require := require.New(t)

	base := memdb.New()
	chainA := New([]byte("A"), base)
	chainB := New([]byte("B"), base)

	require.NoError(chainA.Put([]byte("key"), []byte("a")))
	require.NoError(chainB.Put([]byte("key"), []byte("b")))

	value, err := chainA.Get([]byte("key"))
	require.NoError(err)
	require.Equal([]byte("a"), value)

	require.NoError(chainB.Delete([]byte("key")))
	_, err = chainB.Get([]byte("key"))
	require.ErrorIs(err, database.ErrNotFound)

	_, err = chainA.Get([]byte("key"))
	require.NoError(err)
}
