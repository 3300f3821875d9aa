// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wrappers

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: math.MaxInt32}
	p.PackByte(0x01)
	p.PackShort(0x0203)
	p.PackInt(0x04050607)
	p.PackLong(0x08090a0b0c0d0e0f)
	p.PackBool(true)
	p.PackFixedBytes([]byte{0xaa, 0xbb})
	p.PackBytes([]byte{0xcc})
	p.PackStr("avax")
	require.NoError(p.Err)

	u := Packer{Bytes: p.Bytes}
	require.Equal(byte(0x01), u.UnpackByte())
	require.Equal(uint16(0x0203), u.UnpackShort())
	require.Equal(uint32(0x04050607), u.UnpackInt())
	require.Equal(uint64(0x08090a0b0c0d0e0f), u.UnpackLong())
	require.True(u.UnpackBool())
	require.Equal([]byte{0xaa, 0xbb}, u.UnpackFixedBytes(2))
	require.Equal([]byte{0xcc}, u.UnpackBytes())
	require.Equal("avax", u.UnpackStr())
	require.NoError(u.Err)
	require.Equal(len(p.Bytes), u.Offset)
}

func TestPackerMaxSize(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: 3}
	p.PackInt(1)
	require.ErrorIs(p.Err, ErrInsufficientLength)
}

func TestUnpackerInsufficientLength(t *testing.T) {
	require := require.New(t)

	p := Packer{Bytes: []byte{1, 2, 3}}
	_ = p.UnpackLong()
	require.ErrorIs(p.Err, ErrInsufficientLength)
}

func TestUnpackLimitedBytes(t *testing.T) {
	require := require.New(t)

	p := Packer{MaxSize: 64}
	p.PackBytes([]byte{1, 2, 3})

	u := Packer{Bytes: p.Bytes}
	require.Nil(u.UnpackLimitedBytes(2))
	require.ErrorIs(u.Err, errOversized)
}

func TestErrs(t *testing.T) {
	require := require.New(t)

	first := errors.New("first")
	errs := Errs{}
	errs.Add(nil, first, errors.New("second"))
	require.True(errs.Errored())
	require.Equal(first, errs.Err)
}
