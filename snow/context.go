// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snow

import (
	"github.com/ava-labs/sharedmemory/chains/atomic"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/snow/validators"
	"github.com/ava-labs/sharedmemory/utils/logging"
)

// ContextInitializable represents an object that can be initialized
// given a *Context object
type ContextInitializable interface {
	// InitCtx initializes an object provided a *Context object
	InitCtx(ctx *Context)
}

// Context is information about the current execution.
// [NetworkID] is the ID of the network this context exists within.
// [ChainID] is the ID of the chain this context exists within.
type Context struct {
	NetworkID uint32
	SubnetID  ids.ID
	ChainID   ids.ID

	AVAXAssetID ids.ID

	Log          logging.Logger
	SharedMemory atomic.SharedMemory

	// Resolves the subnet of peer chains
	ValidatorState validators.State
}
