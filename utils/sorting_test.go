// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sortable int

func (s sortable) Less(other sortable) bool {
	return s < other
}

func TestSortAndIsSortedAndUnique(t *testing.T) {
	require := require.New(t)

	s := []sortable{3, 1, 2}
	require.False(IsSortedAndUnique(s))
	Sort(s)
	require.Equal([]sortable{1, 2, 3}, s)
	require.True(IsSortedAndUnique(s))
	require.False(IsSortedAndUnique([]sortable{1, 1}))
	require.True(IsSortedAndUnique([]sortable{}))
}

func TestSortBytes(t *testing.T) {
	require := require.New(t)

	s := [][]byte{{2}, {1, 5}, {1}}
	SortBytes(s)
	require.Equal([][]byte{{1}, {1, 5}, {2}}, s)
}
