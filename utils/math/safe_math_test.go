// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const maxUint64 uint64 = math.MaxUint64

func TestAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Add(maxUint64-1, 1)
	require.NoError(err)
	require.Equal(maxUint64, sum)

	_, err = Add(maxUint64, 1)
	require.ErrorIs(err, ErrOverflow)

	_, err = Add[uint8](200, 56)
	require.ErrorIs(err, ErrOverflow)
}

func TestSub(t *testing.T) {
	require := require.New(t)

	diff, err := Sub[uint64](5, 5)
	require.NoError(err)
	require.Zero(diff)

	_, err = Sub[uint64](4, 5)
	require.ErrorIs(err, ErrUnderflow)
}

func TestMul(t *testing.T) {
	require := require.New(t)

	product, err := Mul[uint64](maxUint64/1_000_000_000, 1_000_000_000)
	require.NoError(err)
	require.Equal(maxUint64/1_000_000_000*1_000_000_000, product)

	_, err = Mul[uint64](maxUint64/1_000_000_000+1, 1_000_000_000)
	require.ErrorIs(err, ErrOverflow)

	product, err = Mul[uint64](maxUint64, 0)
	require.NoError(err)
	require.Zero(product)
}
