// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validators

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/sharedmemory/ids"
)

var (
	ErrUnknownChain = errors.New("unknown chain")

	_ State = (*lockedState)(nil)
	_ State = (*ChainRegistry)(nil)
)

// State allows the lookup of the subnet a chain is validated by.
type State interface {
	// GetSubnetID returns the subnetID of the provided chain.
	GetSubnetID(ctx context.Context, chainID ids.ID) (ids.ID, error)
}

type lockedState struct {
	lock sync.Locker
	s    State
}

func NewLockedState(lock sync.Locker, s State) State {
	return &lockedState{
		lock: lock,
		s:    s,
	}
}

func (s *lockedState) GetSubnetID(ctx context.Context, chainID ids.ID) (ids.ID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.s.GetSubnetID(ctx, chainID)
}

// ChainRegistry is an in-memory record of which subnet validates each known
// chain.
type ChainRegistry struct {
	lock    sync.RWMutex
	subnets map[ids.ID]ids.ID
}

func NewChainRegistry() *ChainRegistry {
	return &ChainRegistry{
		subnets: make(map[ids.ID]ids.ID),
	}
}

// Register records that [chainID] is validated by [subnetID]. Re-registering
// a chain overwrites its subnet.
func (r *ChainRegistry) Register(chainID, subnetID ids.ID) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.subnets[chainID] = subnetID
}

func (r *ChainRegistry) GetSubnetID(_ context.Context, chainID ids.ID) (ids.ID, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	subnetID, ok := r.subnets[chainID]
	if !ok {
		return ids.Empty, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	return subnetID, nil
}
