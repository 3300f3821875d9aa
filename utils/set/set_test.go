// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	require := require.New(t)

	var s Set[int]
	require.Zero(s.Len())
	require.False(s.Contains(1))

	s.Add(1, 2, 2)
	require.Equal(2, s.Len())
	require.True(s.Contains(1))
	require.ElementsMatch([]int{1, 2}, s.List())

	s.Remove(1, 3)
	require.Equal(1, s.Len())
	require.False(s.Contains(1))

	s.Union(Of(4, 5))
	require.True(s.Equals(Of(2, 4, 5)))
	require.False(s.Equals(Of(2, 4)))

	s.Clear()
	require.Zero(s.Len())
}
