// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"github.com/ava-labs/sharedmemory/codec"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

const (
	codecVersion = 0

	// maxTraits bounds the number of index entries stored with one element.
	maxTraits = 1024
)

// Codec is used to marshal and unmarshal dbElements.
var Codec codec.Manager

func init() {
	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(codecVersion, codec.NewCodec()); err != nil {
		panic(err)
	}
}

type dbElement struct {
	// Value is the body of this element.
	Value []byte

	// Traits are a collection of features that can be used to lookup this
	// element.
	Traits [][]byte
}

func (e *dbElement) Pack(p *wrappers.Packer) {
	p.PackBytes(e.Value)
	p.PackInt(uint32(len(e.Traits)))
	for _, trait := range e.Traits {
		p.PackBytes(trait)
	}
}

func (e *dbElement) Unpack(p *wrappers.Packer) {
	e.Value = p.UnpackBytes()
	numTraits := p.UnpackInt()
	if numTraits > maxTraits {
		p.Add(errTooManyTraits)
		return
	}
	e.Traits = make([][]byte, 0, numTraits)
	for i := uint32(0); i < numTraits && !p.Errored(); i++ {
		e.Traits = append(e.Traits, p.UnpackBytes())
	}
}
