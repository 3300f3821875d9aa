// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package avax

import (
	"errors"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
	"github.com/ava-labs/sharedmemory/vms/components/verify"
)

var (
	errNilAssetID   = errors.New("nil asset ID is not valid")
	errEmptyAssetID = errors.New("empty asset ID is not valid")

	_ verify.Verifiable = (*Asset)(nil)
)

type Asset struct {
	ID ids.ID `json:"assetID"`
}

// AssetID returns the ID of the contained asset
func (asset *Asset) AssetID() ids.ID {
	return asset.ID
}

func (asset *Asset) Verify() error {
	switch {
	case asset == nil:
		return errNilAssetID
	case asset.ID == ids.Empty:
		return errEmptyAssetID
	default:
		return nil
	}
}

func (asset *Asset) Pack(p *wrappers.Packer) {
	p.PackFixedBytes(asset.ID[:])
}

func (asset *Asset) Unpack(p *wrappers.Packer) {
	copy(asset.ID[:], p.UnpackFixedBytes(ids.IDLen))
}
