// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeHash256Ranges(t *testing.T) {
	require := require.New(t)

	joined := ComputeHash256Array([]byte("sharedmemory"))
	ranged := ComputeHash256Ranges([]byte("shared"), []byte("memory"))
	require.Equal(joined, ranged)
}

func TestToHash256(t *testing.T) {
	require := require.New(t)

	_, err := ToHash256(make([]byte, HashLen-1))
	require.ErrorIs(err, ErrInvalidHashLen)

	h := ComputeHash256([]byte{1})
	arr, err := ToHash256(h)
	require.NoError(err)
	require.Equal(h, arr[:])
	require.Equal(h[HashLen-4:], Checksum([]byte{1}, 4))
}
