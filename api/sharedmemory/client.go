// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/formatting"
	"github.com/ava-labs/sharedmemory/utils/rpc"

	avajson "github.com/ava-labs/sharedmemory/utils/json"
)

var _ Client = (*client)(nil)

// Client for interacting with the [ServiceName] service
type Client interface {
	// GetAtomicUTXOs returns the bytes of the UTXOs [sourceChain] exported to
	// the chain that are owned by [addrs], and the index to resume from.
	GetAtomicUTXOs(ctx context.Context, addrs []common.Address, sourceChain ids.ID, limit uint32, startIndex Index, options ...rpc.Option) ([][]byte, Index, error)
	// GetBalance returns the balance of [addr] in [assetID]. ids.Empty
	// selects AVAX.
	GetBalance(ctx context.Context, addr common.Address, assetID ids.ID, options ...rpc.Option) (*big.Int, error)
	GetBlockchainID(ctx context.Context, options ...rpc.Option) (ids.ID, error)
}

type client struct {
	requester rpc.EndpointRequester
}

// NewClient returns a client for the chain whose APIs are served under [uri],
// for example http://localhost:9650/ext/bc/C.
func NewClient(uri string) Client {
	return &client{
		requester: rpc.NewEndpointRequester(uri+"/"+ServiceName, ServiceName),
	}
}

func (c *client) GetAtomicUTXOs(
	ctx context.Context,
	addrs []common.Address,
	sourceChain ids.ID,
	limit uint32,
	startIndex Index,
	options ...rpc.Option,
) ([][]byte, Index, error) {
	addrStrs := make([]string, len(addrs))
	for i, addr := range addrs {
		addrStrs[i] = addr.Hex()
	}

	res := &GetUTXOsReply{}
	err := c.requester.SendRequest(ctx, "getUTXOs", &GetUTXOsArgs{
		Addresses:   addrStrs,
		SourceChain: sourceChain.String(),
		Limit:       avajson.Uint32(limit),
		StartIndex:  startIndex,
		Encoding:    formatting.Hex,
	}, res, options...)
	if err != nil {
		return nil, Index{}, err
	}

	utxos := make([][]byte, len(res.UTXOs))
	for i, utxo := range res.UTXOs {
		utxoBytes, err := formatting.Decode(res.Encoding, utxo)
		if err != nil {
			return nil, Index{}, err
		}
		utxos[i] = utxoBytes
	}
	return utxos, res.EndIndex, nil
}

func (c *client) GetBalance(ctx context.Context, addr common.Address, assetID ids.ID, options ...rpc.Option) (*big.Int, error) {
	args := &GetBalanceArgs{Address: addr.Hex()}
	if assetID != ids.Empty {
		args.AssetID = assetID.String()
	}
	res := &GetBalanceReply{}
	if err := c.requester.SendRequest(ctx, "getBalance", args, res, options...); err != nil {
		return nil, err
	}
	return (*big.Int)(res.Balance), nil
}

func (c *client) GetBlockchainID(ctx context.Context, options ...rpc.Option) (ids.ID, error) {
	res := &GetBlockchainIDReply{}
	err := c.requester.SendRequest(ctx, "getBlockchainID", struct{}{}, res, options...)
	return res.BlockchainID, err
}
