// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"

	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"

	safemath "github.com/ava-labs/sharedmemory/utils/math"
)

var (
	ErrIntrinsicGas          = errors.New("intrinsic gas too low")
	ErrPredicateVerification = errors.New("predicate failed verification")
)

// Rules are the precompiles enforcing predicates on the transactions of a
// block.
type Rules struct {
	Predicaters map[common.Address]precompileconfig.Predicater
}

func (r Rules) HasPredicate(address common.Address) bool {
	_, ok := r.Predicaters[address]
	return ok
}

// IntrinsicGas computes the gas charged for [data] and [accessList] before
// execution starts. Storage keys of a predicate precompile are charged by the
// precompile's PredicateGas instead of the access list storage key cost.
func IntrinsicGas(rules Rules, data []byte, accessList types.AccessList) (uint64, error) {
	gas := params.TxGas

	var nonZero uint64
	for _, b := range data {
		if b != 0 {
			nonZero++
		}
	}
	zero := uint64(len(data)) - nonZero

	dataGas, err := safemath.Mul(nonZero, params.TxDataNonZeroGasEIP2028)
	if err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}
	if gas, err = safemath.Add(gas, dataGas); err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}
	if dataGas, err = safemath.Mul(zero, params.TxDataZeroGas); err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}
	if gas, err = safemath.Add(gas, dataGas); err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}

	for _, accessTuple := range accessList {
		if gas, err = safemath.Add(gas, params.TxAccessListAddressGas); err != nil {
			return 0, vmerrs.ErrGasUintOverflow
		}

		predicater, ok := rules.Predicaters[accessTuple.Address]
		if !ok {
			keysGas, err := safemath.Mul(uint64(len(accessTuple.StorageKeys)), params.TxAccessListStorageKeyGas)
			if err != nil {
				return 0, vmerrs.ErrGasUintOverflow
			}
			if gas, err = safemath.Add(gas, keysGas); err != nil {
				return 0, vmerrs.ErrGasUintOverflow
			}
			continue
		}

		predicateGas, err := predicater.PredicateGas(accessTuple.StorageKeys)
		if err != nil {
			return 0, err
		}
		if gas, err = safemath.Add(gas, predicateGas); err != nil {
			return 0, vmerrs.ErrGasUintOverflow
		}
	}
	return gas, nil
}

// CheckPredicates checks that [tx] can cover its intrinsic gas and that every
// predicate it declares passes verification. A transaction failing these
// checks is invalid and never executes.
func CheckPredicates(rules Rules, predicateContext *precompileconfig.PredicateContext, tx *Tx) (uint64, error) {
	intrinsicGas, err := IntrinsicGas(rules, tx.Data, tx.AccessList)
	if err != nil {
		return 0, err
	}
	if tx.Gas < intrinsicGas {
		return 0, fmt.Errorf("%w: have %d, want %d", ErrIntrinsicGas, tx.Gas, intrinsicGas)
	}

	if len(rules.Predicaters) == 0 {
		return intrinsicGas, nil
	}
	for address, predicates := range predicate.FromAccessList(rules, tx.AccessList) {
		predicater := rules.Predicaters[address]
		for i, pred := range predicates {
			if err := predicater.VerifyPredicate(predicateContext, pred); err != nil {
				return 0, fmt.Errorf("%w: %s predicate %d for tx %s: %w", ErrPredicateVerification, address, i, tx.Hash(), err)
			}
		}
	}
	return intrinsicGas, nil
}
