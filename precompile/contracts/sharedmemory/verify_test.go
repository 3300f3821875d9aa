// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/precompiletest"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/components/avax"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

func TestImportMessageHash(t *testing.T) {
	require := require.New(t)

	utxoID := ids.GenerateTestID()
	hash := ImportMessageHash(peerChainID, utxoID, caller)
	require.Len(hash, 32)

	expected := hashing.ComputeHash256(append(append(peerChainID[:], utxoID[:]...), caller[:]...))
	require.Equal(expected, hash)

	// Every input is committed to.
	require.NotEqual(hash, ImportMessageHash(chainID, utxoID, caller))
	require.NotEqual(hash, ImportMessageHash(peerChainID, ids.GenerateTestID(), caller))
	require.NotEqual(hash, ImportMessageHash(peerChainID, utxoID, recipient))
}

func TestParsePredicate(t *testing.T) {
	require := require.New(t)

	key, _ := newKey(t)
	cred, err := secp256k1fx.Sign(make([]byte, 32), key)
	require.NoError(err)

	parsed, err := ParsePredicate(NewPredicate(cred))
	require.NoError(err)
	require.Equal(cred, parsed)

	_, err = ParsePredicate(predicate.Predicate{})
	require.ErrorIs(err, ErrMalformedPredicate)
	require.ErrorIs(err, predicate.ErrMissingDelimiter)
}

func TestVerifyPredicate(t *testing.T) {
	key0, owner0 := newKey(t)
	key1, owner1 := newKey(t)
	key2, _ := newKey(t)

	multisig := inboundUTXO(0, avaxAssetID, 1, 10, 2, owner0, owner1)
	callerOwned := inboundUTXO(1, avaxAssetID, 1, 0, 1, caller)

	sign := func(utxo *avax.UTXO, importer common.Address, keys ...*ecdsa.PrivateKey) []predicate.Predicate {
		return signedPredicates(utxo, importer, keys...)(t, nil)
	}
	combined := func(keys ...*ecdsa.PrivateKey) predicate.Predicate {
		cred, err := secp256k1fx.Sign(ImportMessageHash(peerChainID, utxoID(t, multisig), caller), keys...)
		require.NoError(t, err)
		return NewPredicate(cred)
	}

	tests := []struct {
		name        string
		utxo        *avax.UTXO
		importer    common.Address
		timestamp   uint64
		predicates  []predicate.Predicate
		expectedErr error
	}{
		{
			name:       "importer is the owner",
			utxo:       callerOwned,
			importer:   caller,
			predicates: emptyPredicates(t, nil),
		},
		{
			name:        "importer is the owner without predicate",
			utxo:        callerOwned,
			importer:    caller,
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "importer is not the owner",
			utxo:        callerOwned,
			importer:    recipient,
			predicates:  emptyPredicates(t, nil),
			expectedErr: ErrUnauthorized,
		},
		{
			name:       "signatures in one predicate",
			utxo:       multisig,
			importer:   caller,
			timestamp:  10,
			predicates: []predicate.Predicate{combined(key0, key1)},
		},
		{
			name:       "signatures across predicates",
			utxo:       multisig,
			importer:   caller,
			timestamp:  10,
			predicates: sign(multisig, caller, key1, key0),
		},
		{
			name:       "extra signer is ignored",
			utxo:       multisig,
			importer:   caller,
			timestamp:  10,
			predicates: []predicate.Predicate{combined(key0, key2, key1)},
		},
		{
			name:        "duplicated signer counts once",
			utxo:        multisig,
			importer:    caller,
			timestamp:   10,
			predicates:  []predicate.Predicate{combined(key0, key0)},
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "below threshold",
			utxo:        multisig,
			importer:    caller,
			timestamp:   10,
			predicates:  sign(multisig, caller, key0, key2),
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "locked",
			utxo:        multisig,
			importer:    caller,
			timestamp:   9,
			predicates:  sign(multisig, caller, key0, key1),
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "signed for another importer",
			utxo:        multisig,
			importer:    recipient,
			timestamp:   10,
			predicates:  sign(multisig, caller, key0, key1),
			expectedErr: ErrUnauthorized,
		},
		{
			name:        "malformed predicate",
			utxo:        multisig,
			importer:    caller,
			timestamp:   10,
			predicates:  append(sign(multisig, caller, key0, key1), predicate.Predicate{common.Hash{}}),
			expectedErr: ErrMalformedPredicate,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := VerifyPredicate(test.utxo, peerChainID, test.importer, test.timestamp, test.predicates)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestGetters(t *testing.T) {
	blockchainID, err := PackGetBlockchainIDOutput(common.Hash(chainID))
	require.NoError(t, err)
	assetID, err := PackGetAVAXAssetIDOutput(common.Hash(avaxAssetID))
	require.NoError(t, err)

	mustPack := func(pack func() ([]byte, error)) []byte {
		b, err := pack()
		require.NoError(t, err)
		return b
	}

	tests := map[string]precompiletest.PrecompileTest{
		"get blockchain ID": {
			Caller:      caller,
			Input:       mustPack(PackGetBlockchainID),
			SuppliedGas: GetBlockchainIDGasCost,
			ExpectedRes: blockchainID,
		},
		"get blockchain ID read only": {
			Caller:      caller,
			Input:       mustPack(PackGetBlockchainID),
			SuppliedGas: GetBlockchainIDGasCost,
			ReadOnly:    true,
			ExpectedRes: blockchainID,
		},
		"get blockchain ID out of gas": {
			Caller:      caller,
			Input:       mustPack(PackGetBlockchainID),
			SuppliedGas: GetBlockchainIDGasCost - 1,
			ExpectedErr: vmerrs.ErrOutOfGas,
		},
		"get AVAX asset ID": {
			Caller:      caller,
			Input:       mustPack(PackGetAVAXAssetID),
			SuppliedGas: GetAVAXAssetIDGasCost,
			ReadOnly:    true,
			ExpectedRes: assetID,
		},
	}
	precompiletest.RunPrecompileTests(t, Module, chainID, tests)
}
