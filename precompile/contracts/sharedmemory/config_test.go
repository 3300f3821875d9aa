// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/precompile/precompiletest"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

func ptr(v uint64) *uint64 {
	return &v
}

type otherConfig struct {
	precompileconfig.Upgrade
}

func (*otherConfig) Key() string                        { return "otherConfig" }
func (*otherConfig) Verify() error                      { return nil }
func (*otherConfig) Equal(precompileconfig.Config) bool { return false }

func TestVerify(t *testing.T) {
	tests := map[string]precompiletest.ConfigVerifyTest{
		"valid config": {
			Config: NewConfig(ptr(3)),
		},
		"disable config": {
			Config: NewDisableConfig(ptr(3)),
		},
	}
	precompiletest.RunVerifyTests(t, tests)
}

func TestEqual(t *testing.T) {
	tests := map[string]precompiletest.ConfigEqualTest{
		"non-nil config and nil other": {
			Config:   NewConfig(ptr(3)),
			Other:    nil,
			Expected: false,
		},
		"different type": {
			Config:   NewConfig(ptr(3)),
			Other:    &otherConfig{Upgrade: precompileconfig.Upgrade{BlockTimestamp: ptr(3)}},
			Expected: false,
		},
		"different timestamp": {
			Config:   NewConfig(ptr(3)),
			Other:    NewConfig(ptr(4)),
			Expected: false,
		},
		"enable and disable": {
			Config:   NewConfig(ptr(3)),
			Other:    NewDisableConfig(ptr(3)),
			Expected: false,
		},
		"same config": {
			Config:   NewConfig(ptr(3)),
			Other:    NewConfig(ptr(3)),
			Expected: true,
		},
	}
	precompiletest.RunEqualTests(t, tests)
}

func TestConfigJSON(t *testing.T) {
	require := require.New(t)

	config := Module.MakeConfig()
	require.NoError(json.Unmarshal([]byte(`{"blockTimestamp": 5}`), config))
	require.True(config.Equal(NewConfig(ptr(5))))
	require.Equal(ConfigKey, config.Key())

	b, err := json.Marshal(NewDisableConfig(ptr(7)))
	require.NoError(err)
	require.JSONEq(`{"blockTimestamp": 7, "disable": true}`, string(b))
}

func TestPredicateGas(t *testing.T) {
	key, _ := newKey(t)
	msgHash := ImportMessageHash(peerChainID, utxoID(t, inboundUTXO(0, avaxAssetID, 1, 0, 1, caller)), caller)

	oneSig, err := secp256k1fx.Sign(msgHash, key)
	require.NoError(t, err)
	twoSigs, err := secp256k1fx.Sign(msgHash, key, key)
	require.NoError(t, err)

	tests := []struct {
		name        string
		pred        predicate.Predicate
		expectedGas uint64
		expectedErr error
	}{
		{
			name:        "no signatures",
			pred:        NewPredicate(&secp256k1fx.Credential{}),
			expectedGas: PredicateGasBase + GasCostPerPredicateChunk,
		},
		{
			name:        "one signature",
			pred:        NewPredicate(oneSig),
			expectedGas: PredicateGasBase + 3*GasCostPerPredicateChunk + params.EcrecoverGas,
		},
		{
			name:        "two signatures",
			pred:        NewPredicate(twoSigs),
			expectedGas: PredicateGasBase + 5*GasCostPerPredicateChunk + 2*params.EcrecoverGas,
		},
		{
			name:        "missing delimiter",
			pred:        predicate.Predicate{common.Hash{}},
			expectedErr: ErrMalformedPredicate,
		},
		{
			name:        "truncated signature",
			pred:        predicate.New(make([]byte, secp256k1fx.SignatureLen-1)),
			expectedErr: ErrMalformedPredicate,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			gas, err := new(Config).PredicateGas(test.pred)
			require.ErrorIs(t, err, test.expectedErr)
			require.Equal(t, test.expectedGas, gas)
		})
	}
}

func TestConfigVerifyPredicate(t *testing.T) {
	key, _ := newKey(t)
	msgHash := ImportMessageHash(peerChainID, utxoID(t, inboundUTXO(0, avaxAssetID, 1, 0, 1, caller)), caller)
	cred, err := secp256k1fx.Sign(msgHash, key)
	require.NoError(t, err)

	// A signature with s in the upper half of the curve order is rejected
	// even though it parses.
	malleable := &secp256k1fx.Credential{Sigs: [][secp256k1fx.SignatureLen]byte{{}}}
	for i := 32; i < 64; i++ {
		malleable.Sigs[0][i] = 0xff
	}
	malleable.Sigs[0][31] = 1

	tests := []struct {
		name        string
		pred        predicate.Predicate
		expectedErr error
	}{
		{
			name: "empty credential",
			pred: NewPredicate(&secp256k1fx.Credential{}),
		},
		{
			name: "signed credential",
			pred: NewPredicate(cred),
		},
		{
			name:        "excess padding",
			pred:        append(NewPredicate(cred), common.Hash{}),
			expectedErr: ErrMalformedPredicate,
		},
		{
			name:        "invalid signature values",
			pred:        NewPredicate(malleable),
			expectedErr: ErrMalformedPredicate,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := new(Config).VerifyPredicate(&precompileconfig.PredicateContext{}, test.pred)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestConfigure(t *testing.T) {
	require := require.New(t)

	env := precompiletest.NewEnv(t, chainID)
	require.NoError(Module.Configure(NewConfig(ptr(0)), env.State, nil))
	require.Equal(uint64(1), env.State.GetNonce(ContractAddress))

	err := Module.Configure(&otherConfig{}, env.State, nil)
	require.ErrorContains(err, "expected config type")
}
