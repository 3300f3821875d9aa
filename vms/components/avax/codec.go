// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package avax

import (
	"github.com/ava-labs/sharedmemory/codec"
)

// CodecVersion is the version of the UTXO wire format.
const CodecVersion = 0

// Codec marshals the UTXOs placed into shared memory.
var Codec codec.Manager

func init() {
	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(CodecVersion, codec.NewCodec()); err != nil {
		panic(err)
	}
}
