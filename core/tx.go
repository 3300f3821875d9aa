// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Tx is a call from an account to a precompile. Senders are trusted by the
// host, so transactions carry no signature.
type Tx struct {
	From       common.Address
	Nonce      uint64
	To         common.Address
	Gas        uint64
	Data       []byte
	AccessList types.AccessList
}

// Hash returns the keccak256 hash of the RLP encoding of the transaction.
func (tx *Tx) Hash() common.Hash {
	b, err := rlp.EncodeToBytes(tx)
	if err != nil {
		// Every field of a Tx is RLP encodable.
		panic(err)
	}
	return crypto.Keccak256Hash(b)
}

const (
	ReceiptStatusFailed     = types.ReceiptStatusFailed
	ReceiptStatusSuccessful = types.ReceiptStatusSuccessful
)

// Receipt is the outcome of an issued transaction.
type Receipt struct {
	TxHash      common.Hash
	TxIndex     uint
	BlockNumber uint64
	Status      uint64
	GasUsed     uint64
	Logs        []*types.Log
	ReturnData  []byte
	// Err is set when execution failed and every change of the
	// transaction, other than its nonce, was reverted.
	Err error
}
