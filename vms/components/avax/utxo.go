// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package avax

import (
	"errors"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
	"github.com/ava-labs/sharedmemory/vms/components/verify"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

var (
	errNilUTXO   = errors.New("nil utxo is not valid")
	errNilOutput = errors.New("nil output is not valid")

	_ verify.Verifiable = (*UTXO)(nil)
)

// UTXO is an unspent output that one chain placed into shared memory for
// another chain to consume.
type UTXO struct {
	UTXOID `json:"utxoID"`
	Asset  `json:"asset"`

	Out *secp256k1fx.TransferOutput `json:"output"`
}

func (utxo *UTXO) Verify() error {
	switch {
	case utxo == nil:
		return errNilUTXO
	case utxo.Out == nil:
		return errNilOutput
	default:
		return verify.All(&utxo.UTXOID, &utxo.Asset, utxo.Out)
	}
}

func (utxo *UTXO) Pack(p *wrappers.Packer) {
	utxo.UTXOID.Pack(p)
	utxo.Asset.Pack(p)
	utxo.Out.Pack(p)
}

func (utxo *UTXO) Unpack(p *wrappers.Packer) {
	utxo.UTXOID.Unpack(p)
	utxo.Asset.Unpack(p)
	utxo.Out = &secp256k1fx.TransferOutput{}
	utxo.Out.Unpack(p)
}

// Bytes returns the canonical encoding of the UTXO.
func (utxo *UTXO) Bytes() ([]byte, error) {
	return Codec.Marshal(CodecVersion, utxo)
}

// ComputeID returns the content hash of the UTXO's canonical encoding. It commits to
// the producing transaction, output index, asset, amount and owners.
func (utxo *UTXO) ComputeID() (ids.ID, error) {
	bytes, err := utxo.Bytes()
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(bytes), nil
}

// ParseUTXO parses and verifies the canonical encoding of a UTXO.
func ParseUTXO(bytes []byte) (*UTXO, error) {
	utxo := &UTXO{}
	if _, err := Codec.Unmarshal(bytes, utxo); err != nil {
		return nil, err
	}
	return utxo, utxo.Verify()
}
