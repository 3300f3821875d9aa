// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snowtest

import (
	"testing"

	"github.com/ava-labs/sharedmemory/chains/atomic"
	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/snow/validators"
	"github.com/ava-labs/sharedmemory/utils/constants"
	"github.com/ava-labs/sharedmemory/utils/logging"
)

var (
	atomicPrefix = []byte("atomic")

	XChainID    = ids.ID{'x', 'c', 'h', 'a', 'i', 'n'}
	CChainID    = ids.ID{'c', 'c', 'h', 'a', 'i', 'n'}
	AVAXAssetID = ids.ID{'a', 'v', 'a', 'x'}

	// OtherChainID is registered on OtherSubnetID, so it can't share memory
	// with chains on the primary network.
	OtherSubnetID = ids.ID{'o', 't', 'h', 'e', 'r', 's', 'u', 'b', 'n', 'e', 't'}
	OtherChainID  = ids.ID{'o', 't', 'h', 'e', 'r'}
)

// Environment is a set of chains on the primary network that share one
// atomic memory. The memory and every chain database are prefixes of DB, so
// a chain's accepted state can be written together with its atomic
// operations.
type Environment struct {
	DB       database.Database
	Memory   *atomic.Memory
	Registry *validators.ChainRegistry
}

func NewEnvironment(testing.TB) *Environment {
	registry := validators.NewChainRegistry()
	registry.Register(XChainID, constants.PrimaryNetworkID)
	registry.Register(CChainID, constants.PrimaryNetworkID)
	registry.Register(OtherChainID, OtherSubnetID)
	db := memdb.New()
	return &Environment{
		DB:       db,
		Memory:   atomic.NewMemory(prefixdb.New(atomicPrefix, db)),
		Registry: registry,
	}
}

// ChainDB returns the database of [chainID].
func (e *Environment) ChainDB(chainID ids.ID) database.Database {
	return prefixdb.New(chainID[:], e.DB)
}

// Context returns the context of [chainID] on the primary network.
func (e *Environment) Context(chainID ids.ID) *snow.Context {
	return &snow.Context{
		NetworkID:      constants.UnitTestID,
		SubnetID:       constants.PrimaryNetworkID,
		ChainID:        chainID,
		AVAXAssetID:    AVAXAssetID,
		Log:            logging.NoLog{},
		SharedMemory:   e.Memory.NewSharedMemory(chainID),
		ValidatorState: e.Registry,
	}
}

// Context returns the context of [chainID] in a fresh environment.
func Context(tb testing.TB, chainID ids.ID) *snow.Context {
	return NewEnvironment(tb).Context(chainID)
}
