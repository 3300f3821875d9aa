// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validatorstest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/snow/validators"
)

var (
	errGetSubnetID = errors.New("unexpectedly called GetSubnetID")

	_ validators.State = (*State)(nil)
)

type State struct {
	T testing.TB

	CantGetSubnetID bool

	GetSubnetIDF func(ctx context.Context, chainID ids.ID) (ids.ID, error)
}

func (vm *State) GetSubnetID(ctx context.Context, chainID ids.ID) (ids.ID, error) {
	if vm.GetSubnetIDF != nil {
		return vm.GetSubnetIDF(ctx, chainID)
	}
	if vm.CantGetSubnetID && vm.T != nil {
		require.FailNow(vm.T, errGetSubnetID.Error())
	}
	return ids.Empty, errGetSubnetID
}
