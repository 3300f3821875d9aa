// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vmerrs

import (
	"errors"

	"github.com/ethereum/go-ethereum/core/vm"
)

// List evm execution errors
var (
	ErrOutOfGas            = vm.ErrOutOfGas
	ErrInsufficientBalance = vm.ErrInsufficientBalance
	ErrExecutionReverted   = vm.ErrExecutionReverted
	ErrWriteProtection     = vm.ErrWriteProtection
	ErrGasUintOverflow     = vm.ErrGasUintOverflow
	ErrNonceUintOverflow   = vm.ErrNonceUintOverflow
	ErrNoPrecompile        = errors.New("no precompile registered at address")
)
