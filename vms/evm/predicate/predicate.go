// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package predicate

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Delimiter separates the predicate bytes from the zero padding that extends
// them to a whole number of storage keys.
const Delimiter = 0xff

var (
	ErrMissingDelimiter  = errors.New("no delimiter found")
	ErrExcessPadding     = errors.New("predicate included excess padding")
	ErrWrongEndDelimiter = errors.New("wrong delimiter")
)

// Predicate is a message carried in the storage keys of an access list tuple.
type Predicate []common.Hash

// New packs [b] into storage keys by appending [Delimiter] and right padding
// with zeros to a multiple of 32 bytes.
func New(b []byte) Predicate {
	numUnpaddedChunks := len(b) / common.HashLength
	chunks := make([]common.Hash, numUnpaddedChunks+1)
	for i := range chunks[:numUnpaddedChunks] {
		copy(chunks[i][:], b[common.HashLength*i:])
	}

	// Add the delimiter and required padding to the last chunk.
	copy(chunks[numUnpaddedChunks][:], b[common.HashLength*numUnpaddedChunks:])
	chunks[numUnpaddedChunks][len(b)%common.HashLength] = Delimiter
	return chunks
}

// Bytes unpacks the predicate by stripping the right padded zeroes, checking
// for the delimiter and ensuring there is no excess padding.
func (p Predicate) Bytes() ([]byte, error) {
	padded := make([]byte, common.HashLength*len(p))
	for i, chunk := range p {
		copy(padded[i*common.HashLength:], chunk[:])
	}

	trimmed := common.TrimRightZeroes(padded)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: length (%d)", ErrMissingDelimiter, len(padded))
	}

	if expectedLen := (len(trimmed) + common.HashLength - 1) / common.HashLength * common.HashLength; expectedLen != len(padded) {
		return nil, fmt.Errorf("%w: got length (%d), expected length (%d)", ErrExcessPadding, len(padded), expectedLen)
	}

	if delimiter := trimmed[len(trimmed)-1]; delimiter != Delimiter {
		return nil, fmt.Errorf("%w: got (%x), expected (%x)", ErrWrongEndDelimiter, delimiter, Delimiter)
	}
	return trimmed[:len(trimmed)-1], nil
}

// NumChunks returns the number of storage keys the predicate occupies.
func (p Predicate) NumChunks() uint64 {
	return uint64(len(p))
}

type Precompiles interface {
	HasPredicate(address common.Address) bool
}

// FromAccessList extracts predicates from a transaction's access list.
// If an address is specified multiple times in the access list, each storage
// slot for that address is appended to a slice of predicates.
func FromAccessList(rules Precompiles, list types.AccessList) map[common.Address][]Predicate {
	predicateStorageSlots := make(map[common.Address][]Predicate)
	for _, el := range list {
		if !rules.HasPredicate(el.Address) {
			continue
		}
		predicateStorageSlots[el.Address] = append(predicateStorageSlots[el.Address], el.StorageKeys)
	}
	return predicateStorageSlots
}
