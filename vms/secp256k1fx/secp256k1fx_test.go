// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1fx

import (
	"crypto/ecdsa"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/utils/set"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

func newKey(t *testing.T) (*ecdsa.PrivateKey, ids.ShortID) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, ids.ShortID(crypto.PubkeyToAddress(key.PublicKey))
}

func TestOutputOwnersVerify(t *testing.T) {
	tests := []struct {
		name   string
		owners *OutputOwners
		err    error
	}{
		{
			name:   "nil",
			owners: nil,
			err:    ErrNilOutput,
		},
		{
			name:   "no owners",
			owners: &OutputOwners{Threshold: 1},
			err:    ErrNoOwners,
		},
		{
			name: "zero threshold",
			owners: &OutputOwners{
				Addrs: []ids.ShortID{{1}},
			},
			err: ErrOutputUnspendable,
		},
		{
			name: "threshold too high",
			owners: &OutputOwners{
				Threshold: 2,
				Addrs:     []ids.ShortID{{1}},
			},
			err: ErrOutputUnspendable,
		},
		{
			name: "unsorted",
			owners: &OutputOwners{
				Threshold: 1,
				Addrs:     []ids.ShortID{{2}, {1}},
			},
			err: ErrAddrsNotSortedUnique,
		},
		{
			name: "duplicated",
			owners: &OutputOwners{
				Threshold: 1,
				Addrs:     []ids.ShortID{{1}, {1}},
			},
			err: ErrAddrsNotSortedUnique,
		},
		{
			name: "valid",
			owners: &OutputOwners{
				Locktime:  10,
				Threshold: 2,
				Addrs:     []ids.ShortID{{1}, {2}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.ErrorIs(t, test.owners.Verify(), test.err)
		})
	}
}

func TestOutputOwnersSortAndEquals(t *testing.T) {
	require := require.New(t)

	out := &OutputOwners{
		Threshold: 1,
		Addrs:     []ids.ShortID{{2}, {1}},
	}
	require.ErrorIs(out.Verify(), ErrAddrsNotSortedUnique)
	out.Sort()
	require.NoError(out.Verify())

	require.True(out.Equals(&OutputOwners{
		Threshold: 1,
		Addrs:     []ids.ShortID{{1}, {2}},
	}))
	require.False(out.Equals(&OutputOwners{
		Threshold: 2,
		Addrs:     []ids.ShortID{{1}, {2}},
	}))
	require.True((*OutputOwners)(nil).Equals(nil))
	require.Equal(set.Of[ids.ShortID]([20]byte{1}, [20]byte{2}), out.AddressesSet())
}

func TestTransferOutputPacking(t *testing.T) {
	require := require.New(t)

	out := &TransferOutput{
		Amt: 12345,
		OutputOwners: OutputOwners{
			Locktime:  54321,
			Threshold: 1,
			Addrs:     []ids.ShortID{{1}, {2}},
		},
	}
	require.NoError(out.Verify())

	p := wrappers.Packer{MaxSize: 1024}
	out.Pack(&p)
	require.NoError(p.Err)
	// amount + locktime + threshold + numAddrs + 2 addresses
	require.Len(p.Bytes, 8+8+4+4+2*ids.ShortIDLen)

	parsed := &TransferOutput{}
	parsed.Unpack(&wrappers.Packer{Bytes: p.Bytes})
	require.Equal(out, parsed)

	require.ErrorIs((&TransferOutput{OutputOwners: out.OutputOwners}).Verify(), ErrNoValueOutput)
}

func TestTransferOutputJSON(t *testing.T) {
	require := require.New(t)

	out := &TransferOutput{
		Amt: 7,
		OutputOwners: OutputOwners{
			Threshold: 1,
			Addrs:     []ids.ShortID{{0xab}},
		},
	}
	b, err := json.Marshal(out)
	require.NoError(err)
	require.Contains(string(b), `"amount":7`)
	require.Contains(strings.ToLower(string(b)), `"0xab00000000000000000000000000000000000000"`)
}

func TestCredentialRoundTrip(t *testing.T) {
	require := require.New(t)

	key0, addr0 := newKey(t)
	key1, addr1 := newKey(t)
	hash := hashing.ComputeHash256([]byte("message"))

	cr, err := Sign(hash, key0, key1)
	require.NoError(err)
	require.NoError(cr.Verify())

	b := cr.Bytes()
	require.Len(b, 2*SignatureLen)

	parsed, err := ParseCredential(b)
	require.NoError(err)
	require.Equal(cr, parsed)

	signers, err := parsed.Signers(hash)
	require.NoError(err)
	require.Equal(set.Of(addr0, addr1), signers)

	// A signature over a different message recovers a different address.
	otherSigners, err := parsed.Signers(hashing.ComputeHash256([]byte("other")))
	require.NoError(err)
	require.False(otherSigners.Contains(addr0))
}

func TestParseCredential(t *testing.T) {
	require := require.New(t)

	cr, err := ParseCredential(nil)
	require.NoError(err)
	require.Empty(cr.Sigs)

	_, err = ParseCredential(make([]byte, SignatureLen+1))
	require.ErrorIs(err, ErrInvalidCredential)

	_, err = ParseCredential(make([]byte, (MaxSignatures+1)*SignatureLen))
	require.ErrorIs(err, ErrTooManySignatures)

	// An all-zero signature has invalid R and S values.
	cr, err = ParseCredential(make([]byte, SignatureLen))
	require.NoError(err)
	require.ErrorIs(cr.Verify(), ErrInvalidSignature)
	_, err = cr.Signers(make([]byte, 32))
	require.ErrorIs(err, ErrInvalidSignature)
}

func TestKeychainSpend(t *testing.T) {
	require := require.New(t)

	key0, addr0 := newKey(t)
	_, addr1 := newKey(t)
	kc := NewKeychain(key0)
	require.True(kc.Addrs.Contains(addr0))

	owners := &OutputOwners{
		Locktime:  5,
		Threshold: 2,
		Addrs:     []ids.ShortID{addr0, addr1},
	}
	owners.Sort()
	hash := hashing.ComputeHash256([]byte("spend"))

	// Locked
	_, err := kc.Spend(owners, 4, hash, nil)
	require.ErrorIs(err, errCantSpend)

	// Only one of the two required keys is known
	_, err = kc.Spend(owners, 5, hash, nil)
	require.ErrorIs(err, errCantSpend)

	// The other owner is satisfied externally
	cr, err := kc.Spend(owners, 5, hash, set.Of(addr1))
	require.NoError(err)
	require.Len(cr.Sigs, 1)

	signers, err := cr.Signers(hash)
	require.NoError(err)
	require.Equal(set.Of(addr0), signers)
}
