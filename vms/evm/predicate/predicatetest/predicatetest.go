// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package predicatetest

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

// NewAccessList constructs a types.AccessList from raw predicate bytes for a
// given precompile address.
func NewAccessList(address common.Address, b []byte) types.AccessList {
	return types.AccessList{
		{
			Address:     address,
			StorageKeys: predicate.New(b),
		},
	}
}
