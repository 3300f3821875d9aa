// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Uint64Size is the length of a packed uint64.
const Uint64Size = 8

var errWrongSize = errors.New("value has unexpected size")

func PutUInt64(db KeyValueWriter, key []byte, val uint64) error {
	return db.Put(key, PackUInt64(val))
}

func GetUInt64(db KeyValueReader, key []byte) (uint64, error) {
	b, err := db.Get(key)
	if err != nil {
		return 0, err
	}
	return ParseUInt64(b)
}

// PackUInt64 returns [val] big endian encoded so packed values sort
// numerically.
func PackUInt64(val uint64) []byte {
	b := make([]byte, Uint64Size)
	binary.BigEndian.PutUint64(b, val)
	return b
}

func ParseUInt64(b []byte) (uint64, error) {
	if len(b) != Uint64Size {
		return 0, fmt.Errorf("%w: %d bytes, expected %d", errWrongSize, len(b), Uint64Size)
	}
	return binary.BigEndian.Uint64(b), nil
}

// Count returns the number of keys in [db].
func Count(db Iteratee) (int, error) {
	it := db.NewIterator()
	defer it.Release()

	count := 0
	for it.Next() {
		count++
	}
	return count, it.Error()
}
