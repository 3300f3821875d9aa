// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/ava-labs/sharedmemory/core/state"
)

var errInvalidBalance = errors.New("invalid genesis balance")

// GenesisAccount is the initial state of an account.
type GenesisAccount struct {
	// Balance in wei
	Balance *math.HexOrDecimal256 `json:"balance,omitempty"`
	// Balances of non-AVAX assets, keyed by asset ID
	MultiCoinBalances map[common.Hash]*math.HexOrDecimal256 `json:"mcbalance,omitempty"`
}

type Genesis struct {
	Timestamp uint64                            `json:"timestamp"`
	Alloc     map[common.Address]GenesisAccount `json:"alloc"`
	Config    UpgradeConfig                     `json:"config"`
}

func (g *Genesis) Verify() error {
	for addr, account := range g.Alloc {
		if account.Balance != nil {
			balance := (*big.Int)(account.Balance)
			if _, overflow := uint256.FromBig(balance); overflow || balance.Sign() < 0 {
				return fmt.Errorf("%w: %s has %s", errInvalidBalance, addr, balance)
			}
		}
		for assetID, amount := range account.MultiCoinBalances {
			if (*big.Int)(amount).Sign() < 0 {
				return fmt.Errorf("%w: %s has %s of %s", errInvalidBalance, addr, (*big.Int)(amount), assetID)
			}
		}
	}
	return g.Config.Verify()
}

// apply writes the genesis allocation to [statedb].
func (g *Genesis) apply(statedb *state.StateDB) {
	for addr, account := range g.Alloc {
		if account.Balance != nil {
			balance, _ := uint256.FromBig((*big.Int)(account.Balance))
			statedb.AddBalance(addr, balance)
		}
		for assetID, amount := range account.MultiCoinBalances {
			statedb.AddBalanceMultiCoin(addr, assetID, (*big.Int)(amount))
		}
	}
}
