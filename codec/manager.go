// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/sharedmemory/utils/units"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

const (
	// default max size, in bytes, of something being marshalled by Marshal()
	defaultMaxSize = 256 * units.KiB

	// initial capacity of byte slice that values are marshaled into.
	// Larger value --> need less memory allocations but possibly have allocated but unused memory
	// Smaller value --> need more memory allocations but more efficient use of allocated memory
	initialSliceCap = 128
)

var (
	errUnmarshalNil      = errors.New("can't unmarshal nil")
	errCantUnpackVersion = errors.New("couldn't unpack codec version")
	errUnknownVersion    = errors.New("unknown codec version")
	errDuplicatedVersion = errors.New("duplicated codec version")
	errUnmarshalTooBig   = errors.New("byte array exceeds maximum length")

	_ Manager = (*manager)(nil)
)

// Manager describes the functionality for managing codec versions.
type Manager interface {
	// Associate the given codec with the given version ID
	RegisterCodec(version uint16, codec Codec) error

	// Marshal the given value using the codec with the given version.
	// RegisterCodec must have been called with that version.
	Marshal(version uint16, source Packable) (destination []byte, err error)

	// Unmarshal the given bytes into the given destination. Returns the
	// version of the codec that produces the given bytes.
	Unmarshal(source []byte, destination Packable) (version uint16, err error)
}

// NewManager returns a new codec manager.
func NewManager(maxSize int) Manager {
	return &manager{
		maxSize: maxSize,
		codecs:  map[uint16]Codec{},
	}
}

// NewDefaultManager returns a new codec manager.
func NewDefaultManager() Manager {
	return NewManager(defaultMaxSize)
}

type manager struct {
	lock    sync.RWMutex
	maxSize int
	codecs  map[uint16]Codec
}

// RegisterCodec is used to register a new codec version that can be used to
// (un)marshal with.
func (m *manager) RegisterCodec(version uint16, codec Codec) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, exists := m.codecs[version]; exists {
		return errDuplicatedVersion
	}
	m.codecs[version] = codec
	return nil
}

func (m *manager) Marshal(version uint16, value Packable) ([]byte, error) {
	if value == nil {
		return nil, ErrMarshalNil
	}

	m.lock.RLock()
	c, exists := m.codecs[version]
	m.lock.RUnlock()
	if !exists {
		return nil, errUnknownVersion
	}

	p := wrappers.Packer{
		MaxSize: m.maxSize,
		Bytes:   make([]byte, 0, initialSliceCap),
	}
	p.PackShort(version)
	if err := c.MarshalInto(value, &p); err != nil {
		return nil, err
	}
	return p.Bytes, nil
}

// Unmarshal unmarshals [bytes] into [dest].
func (m *manager) Unmarshal(bytes []byte, dest Packable) (uint16, error) {
	if dest == nil {
		return 0, errUnmarshalNil
	}

	if byteLen := len(bytes); byteLen > m.maxSize {
		return 0, fmt.Errorf("%w: %d > %d", errUnmarshalTooBig, byteLen, m.maxSize)
	}

	p := wrappers.Packer{
		Bytes: bytes,
	}
	version := p.UnpackShort()
	if p.Errored() { // Make sure the codec version is correct
		return 0, errCantUnpackVersion
	}

	m.lock.RLock()
	c, exists := m.codecs[version]
	m.lock.RUnlock()
	if !exists {
		return version, errUnknownVersion
	}
	return version, c.Unmarshal(p.Bytes[p.Offset:], dest)
}
