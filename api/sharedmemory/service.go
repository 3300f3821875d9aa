// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/formatting"
	"github.com/ava-labs/sharedmemory/utils/set"
	"github.com/ava-labs/sharedmemory/vms/components/avax"

	avajson "github.com/ava-labs/sharedmemory/utils/json"
)

const (
	ServiceName = "avax"

	// Max number of addresses that can be passed in as argument to GetUTXOs
	maxGetUTXOsAddrs = 1024
	// Max number of items allowed in a page
	maxPageSize = 1024
)

var (
	errNoAddresses      = errors.New("no addresses provided")
	errNoSourceChain    = errors.New("no source chain provided")
	errInvalidAddress   = errors.New("invalid address")
	errSameSourceChain  = errors.New("source chain must differ from this chain")
	errInvalidStartUTXO = errors.New("start index utxo provided without address")
)

// Service exposes the shared memory of a chain.
type Service struct {
	chain *core.Chain
}

// NewHandler returns an http handler serving the [ServiceName] service of
// [chain] over JSON-RPC 2.0.
func NewHandler(chain *core.Chain) (http.Handler, error) {
	server := rpc.NewServer()
	codec := avajson.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := server.RegisterService(&Service{chain: chain}, ServiceName); err != nil {
		return nil, err
	}
	return server, nil
}

// Index marks a starting or stopping point when fetching UTXOs. Used for
// pagination.
type Index struct {
	Address string `json:"address"`
	UTXO    string `json:"utxo"`
}

type GetUTXOsArgs struct {
	Addresses   []string            `json:"addresses"`
	SourceChain string              `json:"sourceChain"`
	Limit       avajson.Uint32      `json:"limit"`
	StartIndex  Index               `json:"startIndex"`
	Encoding    formatting.Encoding `json:"encoding"`
}

type GetUTXOsReply struct {
	NumFetched avajson.Uint64      `json:"numFetched"`
	UTXOs      []string            `json:"utxos"`
	UTXOIDs    []ids.ID            `json:"utxoIDs"`
	EndIndex   Index               `json:"endIndex"`
	Encoding   formatting.Encoding `json:"encoding"`
}

// GetUTXOs returns the UTXOs that [args.SourceChain] exported to this chain
// and that are owned by any of [args.Addresses].
func (s *Service) GetUTXOs(_ *http.Request, args *GetUTXOsArgs, reply *GetUTXOsReply) error {
	ctx := s.chain.SnowContext()
	ctx.Log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getUTXOs"),
		zap.Int("numAddresses", len(args.Addresses)),
	)

	if len(args.Addresses) == 0 {
		return errNoAddresses
	}
	if len(args.Addresses) > maxGetUTXOsAddrs {
		return fmt.Errorf("number of addresses given, %d, exceeds maximum, %d", len(args.Addresses), maxGetUTXOsAddrs)
	}
	if args.SourceChain == "" {
		return errNoSourceChain
	}
	sourceChain, err := ids.FromString(args.SourceChain)
	if err != nil {
		return fmt.Errorf("problem parsing source chainID %q: %w", args.SourceChain, err)
	}
	if sourceChain == ctx.ChainID {
		return errSameSourceChain
	}

	addrs := set.NewSet[ids.ShortID](len(args.Addresses))
	for _, addrStr := range args.Addresses {
		addr, err := parseAddress(addrStr)
		if err != nil {
			return err
		}
		addrs.Add(ids.ShortID(addr))
	}

	var (
		startAddr   = ids.ShortEmpty
		startUTXOID = ids.Empty
	)
	switch {
	case args.StartIndex.Address != "":
		addr, err := parseAddress(args.StartIndex.Address)
		if err != nil {
			return fmt.Errorf("couldn't parse start index address: %w", err)
		}
		startAddr = ids.ShortID(addr)
		if args.StartIndex.UTXO != "" {
			startUTXOID, err = ids.FromString(args.StartIndex.UTXO)
			if err != nil {
				return fmt.Errorf("couldn't parse start index utxo: %w", err)
			}
		}
	case args.StartIndex.UTXO != "":
		return errInvalidStartUTXO
	}

	limit := int(args.Limit)
	if limit <= 0 || maxPageSize < limit {
		limit = maxPageSize
	}

	utxos, endAddr, endUTXOID, err := avax.GetAtomicUTXOs(
		ctx.SharedMemory,
		sourceChain,
		addrs,
		startAddr,
		startUTXOID,
		limit,
	)
	if err != nil {
		return fmt.Errorf("problem retrieving UTXOs: %w", err)
	}

	reply.UTXOs = make([]string, len(utxos))
	reply.UTXOIDs = make([]ids.ID, len(utxos))
	for i, utxo := range utxos {
		utxoID, err := utxo.ComputeID()
		if err != nil {
			return err
		}
		utxoBytes, err := utxo.Bytes()
		if err != nil {
			return fmt.Errorf("couldn't serialize UTXO %s: %w", utxoID, err)
		}
		reply.UTXOIDs[i] = utxoID
		reply.UTXOs[i], err = formatting.Encode(args.Encoding, utxoBytes)
		if err != nil {
			return fmt.Errorf("couldn't encode UTXO %s as %s: %w", utxoID, args.Encoding, err)
		}
	}

	reply.EndIndex.Address = common.Address(endAddr).Hex()
	reply.EndIndex.UTXO = endUTXOID.String()
	reply.NumFetched = avajson.Uint64(len(utxos))
	reply.Encoding = args.Encoding
	return nil
}

type GetBalanceArgs struct {
	Address string `json:"address"`
	// Empty for AVAX
	AssetID string `json:"assetID"`
}

type GetBalanceReply struct {
	// Wei for AVAX, UTXO units for every other asset.
	Balance *math.HexOrDecimal256 `json:"balance"`
	AssetID ids.ID                `json:"assetID"`
}

// GetBalance returns the balance of [args.Address] on this chain.
func (s *Service) GetBalance(_ *http.Request, args *GetBalanceArgs, reply *GetBalanceReply) error {
	ctx := s.chain.SnowContext()
	ctx.Log.Debug("API called",
		zap.String("service", ServiceName),
		zap.String("method", "getBalance"),
		zap.String("address", args.Address),
	)

	addr, err := parseAddress(args.Address)
	if err != nil {
		return err
	}

	assetID := ctx.AVAXAssetID
	if args.AssetID != "" {
		assetID, err = ids.FromString(args.AssetID)
		if err != nil {
			return fmt.Errorf("problem parsing assetID %q: %w", args.AssetID, err)
		}
	}

	var balance *big.Int
	if assetID == ctx.AVAXAssetID {
		wei, err := s.chain.GetBalance(addr)
		if err != nil {
			return err
		}
		balance = wei.ToBig()
	} else {
		balance, err = s.chain.GetBalanceMultiCoin(addr, common.Hash(assetID))
		if err != nil {
			return err
		}
	}
	reply.Balance = (*math.HexOrDecimal256)(balance)
	reply.AssetID = assetID
	return nil
}

type GetBlockchainIDReply struct {
	BlockchainID ids.ID `json:"blockchainID"`
}

// GetBlockchainID returns the ID of this chain.
func (s *Service) GetBlockchainID(_ *http.Request, _ *struct{}, reply *GetBlockchainIDReply) error {
	reply.BlockchainID = s.chain.SnowContext().ChainID
	return nil
}

func parseAddress(addrStr string) (common.Address, error) {
	if !common.IsHexAddress(addrStr) {
		return common.Address{}, fmt.Errorf("%w: %q", errInvalidAddress, addrStr)
	}
	return common.HexToAddress(addrStr), nil
}
