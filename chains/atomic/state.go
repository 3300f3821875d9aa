// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/utils"
	"github.com/ava-labs/sharedmemory/utils/set"
)

var errDuplicatedOperation = errors.New("duplicated operation on provided value")

type state struct {
	valueDB database.Database
	indexDB database.Database
}

// Value returns the Element associated with [key].
func (s *state) Value(key []byte) (*Element, error) {
	value, err := s.loadValue(key)
	if err != nil {
		return nil, err
	}
	return &Element{
		Key:    key,
		Value:  value.Value,
		Traits: value.Traits,
	}, nil
}

// SetValue places the element [e] into the state and maps each of the traits
// of the element to its key, so that the element can be looked up by any of
// its traits.
//
// A key may only be written once.
func (s *state) SetValue(e *Element) error {
	_, err := s.loadValue(e.Key)
	if err == nil {
		return fmt.Errorf("%w: put %x", errDuplicatedOperation, e.Key)
	}
	if err != database.ErrNotFound {
		// An unexpected error occurred, so we should propagate that error
		return err
	}

	for _, trait := range e.Traits {
		traitDB := prefixdb.New(trait, s.indexDB)
		if err := traitDB.Put(e.Key, nil); err != nil {
			return err
		}
	}

	dbElem := dbElement{
		Value:  e.Value,
		Traits: e.Traits,
	}
	valueBytes, err := Codec.Marshal(codecVersion, &dbElem)
	if err != nil {
		return err
	}
	return s.valueDB.Put(e.Key, valueBytes)
}

// RemoveValue removes [key] from the state along with its trait index
// entries. Removing a key that was never written returns
// database.ErrNotFound.
func (s *state) RemoveValue(key []byte) error {
	value, err := s.loadValue(key)
	if err != nil {
		return err
	}

	for _, trait := range value.Traits {
		traitDB := prefixdb.New(trait, s.indexDB)
		if err := traitDB.Delete(key); err != nil {
			return err
		}
	}
	return s.valueDB.Delete(key)
}

func (s *state) loadValue(key []byte) (*dbElement, error) {
	valueBytes, err := s.valueDB.Get(key)
	if err != nil {
		return nil, err
	}

	// The key was in the database
	value := &dbElement{}
	_, err = Codec.Unmarshal(valueBytes, value)
	return value, err
}

// getKeys returns up to [limit] keys starting at [startTrait] and after
// [startKey] that possess any of [traits]. Along with the keys, the last
// trait and key visited are returned so that iteration can be resumed.
func (s *state) getKeys(traits [][]byte, startTrait, startKey []byte, limit int) ([][]byte, []byte, []byte, error) {
	tracked := set.Set[string]{}
	keys := [][]byte(nil)
	lastTrait := startTrait
	lastKey := startKey
	sortedTraits := make([][]byte, len(traits))
	copy(sortedTraits, traits)
	utils.SortBytes(sortedTraits)
	for _, trait := range sortedTraits {
		if limit <= 0 {
			break
		}

		traitStart := startKey
		switch bytes.Compare(trait, startTrait) {
		case -1:
			continue
		case 1:
			traitStart = nil
		}

		lastTrait = trait
		var err error
		lastKey, err = s.appendTraitKeys(&keys, &tracked, &limit, trait, traitStart)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return keys, lastTrait, lastKey, nil
}

// appendTraitKeys iterates the index of [trait] after [startKey], appending
// keys that have not been seen before.
func (s *state) appendTraitKeys(keys *[][]byte, tracked *set.Set[string], limit *int, trait, startKey []byte) ([]byte, error) {
	lastKey := startKey

	traitDB := prefixdb.New(trait, s.indexDB)
	iter := traitDB.NewIteratorWithStart(startKey)
	defer iter.Release()
	for *limit > 0 && iter.Next() {
		key := slices.Clone(iter.Key())
		if startKey != nil && bytes.Equal(key, startKey) {
			continue
		}
		lastKey = key

		if tracked.Contains(string(key)) {
			continue
		}

		tracked.Add(string(key))
		*keys = append(*keys, key)
		*limit--
	}
	return lastKey, iter.Error()
}
