// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package txs builds the precompile calls issued by the simulator.
package txs

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

// Gas supplied to every transaction. Exports and imports with a single
// signature use far less.
const Gas = 1_000_000

// ExportAVAX returns a call of [from] moving [amount] nAVAX to [to] on
// [destinationChainID].
func ExportAVAX(from common.Address, nonce uint64, amount uint64, destinationChainID ids.ID, to common.Address) (*core.Tx, error) {
	data, err := sharedmemory.PackExportAVAX(sharedmemory.ExportAVAXInput{
		Amount:             amount * sharedmemory.X2CRate,
		DestinationChainID: destinationChainID,
		To:                 to,
	})
	if err != nil {
		return nil, err
	}
	return &core.Tx{
		From:  from,
		Nonce: nonce,
		To:    sharedmemory.ContractAddress,
		Gas:   Gas,
		Data:  data,
	}, nil
}

// ImportAVAX returns a call of the owner of [key] consuming [utxoID] exported
// by [sourceChainID]. The owner authorizes the import with a signature
// carried as a predicate. [expectedAmount] is in wei; 0 accepts any amount.
func ImportAVAX(key *ecdsa.PrivateKey, nonce uint64, sourceChainID ids.ID, utxoID ids.ID, expectedAmount uint64) (*core.Tx, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)
	data, err := sharedmemory.PackImportAVAX(sharedmemory.ImportInput{
		SourceChainID:  sourceChainID,
		UtxoID:         utxoID,
		ExpectedAmount: expectedAmount,
	})
	if err != nil {
		return nil, err
	}
	cred, err := secp256k1fx.Sign(sharedmemory.ImportMessageHash(sourceChainID, utxoID, from), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign import of %s: %w", utxoID, err)
	}
	return &core.Tx{
		From:  from,
		Nonce: nonce,
		To:    sharedmemory.ContractAddress,
		Gas:   Gas,
		Data:  data,
		AccessList: types.AccessList{{
			Address:     sharedmemory.ContractAddress,
			StorageKeys: sharedmemory.NewPredicate(cred),
		}},
	}, nil
}

// ExportedUTXOID returns the ID of the UTXO created by a successful export.
func ExportedUTXOID(receipt *core.Receipt) (ids.ID, error) {
	res, err := sharedmemory.SharedMemoryABI.Unpack("exportAVAX", receipt.ReturnData)
	if err != nil {
		return ids.Empty, err
	}
	if len(res) != 1 {
		return ids.Empty, fmt.Errorf("unexpected number of return values: %d", len(res))
	}
	utxoID, ok := res[0].([32]byte)
	if !ok {
		return ids.Empty, fmt.Errorf("unexpected return type %T", res[0])
	}
	return ids.ID(utxoID), nil
}
