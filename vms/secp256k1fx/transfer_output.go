// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1fx

import (
	"encoding/json"
	"errors"

	"github.com/ava-labs/sharedmemory/utils/wrappers"
	"github.com/ava-labs/sharedmemory/vms/components/verify"
)

var (
	ErrNoValueOutput = errors.New("output has no value")

	_ verify.State = (*TransferOutput)(nil)
)

type TransferOutput struct {
	Amt uint64 `json:"amount"`

	OutputOwners `json:"outputOwners"`
}

// Amount returns the quantity of the asset this output consumes
func (out *TransferOutput) Amount() uint64 {
	return out.Amt
}

func (out *TransferOutput) Verify() error {
	switch {
	case out == nil:
		return ErrNilOutput
	case out.Amt == 0:
		return ErrNoValueOutput
	default:
		return out.OutputOwners.Verify()
	}
}

func (out *TransferOutput) VerifyState() error {
	return out.Verify()
}

func (out *TransferOutput) Pack(p *wrappers.Packer) {
	p.PackLong(out.Amt)
	out.OutputOwners.Pack(p)
}

func (out *TransferOutput) Unpack(p *wrappers.Packer) {
	out.Amt = p.UnpackLong()
	out.OutputOwners.Unpack(p)
}

// MarshalJSON keeps the amount alongside the owners, which would otherwise
// be shadowed by the promoted OutputOwners.MarshalJSON.
func (out *TransferOutput) MarshalJSON() ([]byte, error) {
	owners, err := out.OutputOwners.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Amt          uint64          `json:"amount"`
		OutputOwners json.RawMessage `json:"outputOwners"`
	}{
		Amt:          out.Amt,
		OutputOwners: owners,
	})
}
