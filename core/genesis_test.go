// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/core/state"
	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
)

func TestGenesisUnmarshal(t *testing.T) {
	require := require.New(t)

	const genesisJSON = `{
		"timestamp": 5,
		"alloc": {
			"0x0100000000000000000000000000000000000000": {
				"balance": "0x3b9aca00",
				"mcbalance": {
					"0x0200000000000000000000000000000000000000000000000000000000000000": "100"
				}
			}
		},
		"config": {
			"precompileUpgrades": [
				{"sharedMemoryConfig": {"blockTimestamp": 0}},
				{"sharedMemoryConfig": {"blockTimestamp": 10, "disable": true}}
			]
		}
	}`

	var genesis Genesis
	require.NoError(json.Unmarshal([]byte(genesisJSON), &genesis))
	require.NoError(genesis.Verify())
	require.Equal(uint64(5), genesis.Timestamp)

	account, ok := genesis.Alloc[common.Address{1}]
	require.True(ok)
	require.Equal(big.NewInt(1_000_000_000), (*big.Int)(account.Balance))
	require.Equal(big.NewInt(100), (*big.Int)(account.MultiCoinBalances[common.Hash{2}]))

	require.Len(genesis.Config.PrecompileUpgrades, 2)
	require.True(genesis.Config.PrecompileUpgrades[0].Equal(sharedmemory.NewConfig(ptr(0))))
	require.True(genesis.Config.PrecompileUpgrades[1].Equal(sharedmemory.NewDisableConfig(ptr(10))))

	statedb := state.New(memdb.New())
	genesis.apply(statedb)
	require.Equal(uint256.NewInt(1_000_000_000), statedb.GetBalance(common.Address{1}))
	require.Equal(big.NewInt(100), statedb.GetBalanceMultiCoin(common.Address{1}, common.Hash{2}))
}

func TestGenesisVerify(t *testing.T) {
	tooLarge := new(big.Int).Lsh(big.NewInt(1), 256)

	tests := []struct {
		name        string
		genesis     *Genesis
		expectedErr error
	}{
		{
			name:    "empty",
			genesis: &Genesis{},
		},
		{
			name: "balance overflows",
			genesis: &Genesis{
				Alloc: map[common.Address]GenesisAccount{
					{1}: {Balance: (*math.HexOrDecimal256)(tooLarge)},
				},
			},
			expectedErr: errInvalidBalance,
		},
		{
			name: "negative balance",
			genesis: &Genesis{
				Alloc: map[common.Address]GenesisAccount{
					{1}: {Balance: (*math.HexOrDecimal256)(big.NewInt(-1))},
				},
			},
			expectedErr: errInvalidBalance,
		},
		{
			name: "negative multi-coin balance",
			genesis: &Genesis{
				Alloc: map[common.Address]GenesisAccount{
					{1}: {MultiCoinBalances: map[common.Hash]*math.HexOrDecimal256{
						{2}: (*math.HexOrDecimal256)(big.NewInt(-1)),
					}},
				},
			},
			expectedErr: errInvalidBalance,
		},
		{
			name: "invalid upgrades",
			genesis: &Genesis{
				Config: UpgradeConfig{
					PrecompileUpgrades: []PrecompileUpgrade{
						{Config: sharedmemory.NewConfig(nil)},
					},
				},
			},
			expectedErr: errNoTimestamp,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.ErrorIs(t, test.genesis.Verify(), test.expectedErr)
		})
	}
}
