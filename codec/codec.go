// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"

	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

var (
	ErrMarshalNil = errors.New("can't marshal nil value")
	ErrExtraSpace = errors.New("trailing buffer space")

	_ Codec = (*packerCodec)(nil)
)

// Packable is implemented by every type that is serialized by a Codec.
// Implementations report failures through the Packer's error.
type Packable interface {
	Pack(p *wrappers.Packer)
	Unpack(p *wrappers.Packer)
}

// Codec marshals and unmarshals
type Codec interface {
	MarshalInto(Packable, *wrappers.Packer) error
	Unmarshal([]byte, Packable) error
}

// NewCodec returns a codec that delegates to the value's own packing logic.
func NewCodec() Codec {
	return packerCodec{}
}

type packerCodec struct{}

func (packerCodec) MarshalInto(value Packable, p *wrappers.Packer) error {
	if value == nil {
		return ErrMarshalNil
	}
	value.Pack(p)
	return p.Err
}

func (packerCodec) Unmarshal(bytes []byte, dest Packable) error {
	if dest == nil {
		return errUnmarshalNil
	}
	p := wrappers.Packer{
		Bytes: bytes,
	}
	dest.Unpack(&p)
	if p.Errored() {
		return p.Err
	}
	if p.Offset != len(bytes) {
		return fmt.Errorf("%w: read %d provided %d",
			ErrExtraSpace,
			p.Offset,
			len(bytes),
		)
	}
	return nil
}
