// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1fx

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils"
	"github.com/ava-labs/sharedmemory/utils/set"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
	"github.com/ava-labs/sharedmemory/vms/components/verify"
)

// MaxAddresses bounds the owner set of a single output.
const MaxAddresses = 256

var (
	ErrNilOutput            = errors.New("nil output")
	ErrOutputUnspendable    = errors.New("output is unspendable")
	ErrNoOwners             = errors.New("output has no owners")
	ErrAddrsNotSortedUnique = errors.New("addresses not sorted and unique")
	ErrTooManyAddresses     = errors.New("too many addresses")

	_ verify.State = (*OutputOwners)(nil)
)

type OutputOwners struct {
	Locktime  uint64        `json:"locktime"`
	Threshold uint32        `json:"threshold"`
	Addrs     []ids.ShortID `json:"addresses"`
}

// MarshalJSON marshals OutputOwners as JSON with checksummed EVM addresses.
func (out *OutputOwners) MarshalJSON() ([]byte, error) {
	addresses := make([]string, len(out.Addrs))
	for i, addr := range out.Addrs {
		addresses[i] = common.Address(addr).Hex()
	}
	return json.Marshal(map[string]interface{}{
		"locktime":  out.Locktime,
		"threshold": out.Threshold,
		"addresses": addresses,
	})
}

// Addresses returns the addresses that manage this output
func (out *OutputOwners) Addresses() [][]byte {
	addrs := make([][]byte, len(out.Addrs))
	for i, addr := range out.Addrs {
		addrs[i] = addr.Bytes()
	}
	return addrs
}

// AddressesSet returns addresses as a set
func (out *OutputOwners) AddressesSet() set.Set[ids.ShortID] {
	return set.Of(out.Addrs...)
}

// Equals returns true if the provided owners create the same condition
func (out *OutputOwners) Equals(other *OutputOwners) bool {
	if out == other {
		return true
	}
	if out == nil || other == nil || out.Locktime != other.Locktime || out.Threshold != other.Threshold || len(out.Addrs) != len(other.Addrs) {
		return false
	}
	for i, addr := range out.Addrs {
		if addr != other.Addrs[i] {
			return false
		}
	}
	return true
}

func (out *OutputOwners) Verify() error {
	switch {
	case out == nil:
		return ErrNilOutput
	case len(out.Addrs) == 0:
		return ErrNoOwners
	case len(out.Addrs) > MaxAddresses:
		return ErrTooManyAddresses
	case out.Threshold == 0 || out.Threshold > uint32(len(out.Addrs)):
		return ErrOutputUnspendable
	case !utils.IsSortedAndUnique(out.Addrs):
		return ErrAddrsNotSortedUnique
	default:
		return nil
	}
}

func (out *OutputOwners) VerifyState() error {
	return out.Verify()
}

func (out *OutputOwners) Sort() {
	utils.Sort(out.Addrs)
}

func (out *OutputOwners) Pack(p *wrappers.Packer) {
	p.PackLong(out.Locktime)
	p.PackInt(out.Threshold)
	p.PackInt(uint32(len(out.Addrs)))
	for _, addr := range out.Addrs {
		p.PackFixedBytes(addr[:])
	}
}

func (out *OutputOwners) Unpack(p *wrappers.Packer) {
	out.Locktime = p.UnpackLong()
	out.Threshold = p.UnpackInt()
	numAddrs := p.UnpackInt()
	if numAddrs > MaxAddresses {
		p.Add(ErrTooManyAddresses)
		return
	}
	out.Addrs = make([]ids.ShortID, numAddrs)
	for i := range out.Addrs {
		copy(out.Addrs[i][:], p.UnpackFixedBytes(ids.ShortIDLen))
	}
}
