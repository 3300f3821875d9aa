// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"errors"
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

type predicateCheckTest struct {
	accessList       types.AccessList
	data             []byte
	gas              uint64
	createPredicates func(t testing.TB) map[common.Address]precompileconfig.Predicater
	expectedGas      uint64
	expectedErr      error
}

func TestCheckPredicates(t *testing.T) {
	testErr := errors.New("test error")
	addr1 := common.HexToAddress("0xaa")
	addr2 := common.HexToAddress("0xbb")
	predicateContext := &precompileconfig.PredicateContext{}

	for name, test := range map[string]predicateCheckTest{
		"no predicates, no access list": {
			gas:         53000,
			expectedGas: params.TxGas,
		},
		"data is charged per byte": {
			data:        []byte{0, 1, 2},
			gas:         53000,
			expectedGas: params.TxGas + params.TxDataZeroGas + 2*params.TxDataNonZeroGasEIP2028,
		},
		"no predicates, with access list": {
			gas: 53000,
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedGas: params.TxGas + params.TxAccessListAddressGas + params.TxAccessListStorageKeyGas,
		},
		"predicate, no access list": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			expectedGas: params.TxGas,
		},
		"predicate named by access list": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				arg := predicate.Predicate{{1}}
				predicater.EXPECT().PredicateGas(arg).Return(uint64(5000), nil).Times(1)
				predicater.EXPECT().VerifyPredicate(predicateContext, arg).Return(nil).Times(1)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedGas: params.TxGas + params.TxAccessListAddressGas + 5000,
		},
		"predicate and plain access tuple": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				arg := predicate.Predicate{{1}}
				predicater.EXPECT().PredicateGas(arg).Return(uint64(5000), nil).Times(1)
				predicater.EXPECT().VerifyPredicate(predicateContext, arg).Return(nil).Times(1)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{
				{
					Address:     addr1,
					StorageKeys: []common.Hash{{1}},
				},
				{
					Address:     addr2,
					StorageKeys: []common.Hash{{1}, {2}},
				},
			},
			expectedGas: params.TxGas + 2*params.TxAccessListAddressGas + 5000 + 2*params.TxAccessListStorageKeyGas,
		},
		"multiple predicates for one address": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				arg1 := predicate.Predicate{{1}}
				arg2 := predicate.Predicate{{2}, {3}}
				predicater.EXPECT().PredicateGas(arg1).Return(uint64(5000), nil).Times(1)
				predicater.EXPECT().PredicateGas(arg2).Return(uint64(6000), nil).Times(1)
				predicater.EXPECT().VerifyPredicate(predicateContext, arg1).Return(nil).Times(1)
				predicater.EXPECT().VerifyPredicate(predicateContext, arg2).Return(nil).Times(1)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{
				{
					Address:     addr1,
					StorageKeys: []common.Hash{{1}},
				},
				{
					Address:     addr1,
					StorageKeys: []common.Hash{{2}, {3}},
				},
			},
			expectedGas: params.TxGas + 2*params.TxAccessListAddressGas + 11000,
		},
		"predicate returns gas err": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				predicater.EXPECT().PredicateGas(predicate.Predicate{{1}}).Return(uint64(0), testErr)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedErr: testErr,
		},
		"predicate gas overflows": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				predicater.EXPECT().PredicateGas(predicate.Predicate{{1}}).Return(uint64(math.MaxUint64), nil)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedErr: vmerrs.ErrGasUintOverflow,
		},
		"insufficient gas for predicate": {
			gas: params.TxGas + params.TxAccessListAddressGas + 4999,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				predicater.EXPECT().PredicateGas(predicate.Predicate{{1}}).Return(uint64(5000), nil)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedErr: ErrIntrinsicGas,
		},
		"predicate fails verification": {
			gas: 53000,
			createPredicates: func(t testing.TB) map[common.Address]precompileconfig.Predicater {
				predicater := precompileconfig.NewMockPredicater(gomock.NewController(t))
				arg := predicate.Predicate{{1}}
				predicater.EXPECT().PredicateGas(arg).Return(uint64(0), nil)
				predicater.EXPECT().VerifyPredicate(predicateContext, arg).Return(testErr)
				return map[common.Address]precompileconfig.Predicater{
					addr1: predicater,
				}
			},
			accessList: types.AccessList{{
				Address:     addr1,
				StorageKeys: []common.Hash{{1}},
			}},
			expectedErr: ErrPredicateVerification,
		},
	} {
		test := test
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			rules := Rules{}
			if test.createPredicates != nil {
				rules.Predicaters = test.createPredicates(t)
			}
			intrinsicGas, err := CheckPredicates(rules, predicateContext, &Tx{
				To:         addr1,
				Gas:        test.gas,
				Data:       test.data,
				AccessList: test.accessList,
			})
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				return
			}
			require.Equal(test.expectedGas, intrinsicGas)
		})
	}
}

func TestRulesHasPredicate(t *testing.T) {
	require := require.New(t)

	addr := common.HexToAddress("0xaa")
	rules := Rules{
		Predicaters: map[common.Address]precompileconfig.Predicater{
			addr: precompileconfig.NewMockPredicater(gomock.NewController(t)),
		},
	}
	require.True(rules.HasPredicate(addr))
	require.False(rules.HasPredicate(common.HexToAddress("0xbb")))
	require.False(Rules{}.HasPredicate(addr))
}
