// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package memdb

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/sharedmemory/database"
)

const (
	// Name is the name of this database for database switches
	Name = "memdb"

	// DefaultSize is the initial capacity, in bytes, of the key/value buffer.
	DefaultSize = 1024
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database is an ephemeral key-value store kept in a sorted skiplist.
//
// Overwritten and deleted values keep occupying memory until Compact is
// called.
type Database struct {
	lock sync.RWMutex
	db   *memdb.DB // nil once closed
}

func New() *Database {
	return NewWithSize(DefaultSize)
}

// NewWithSize returns a database whose buffer initially holds [size] bytes.
func NewWithSize(size int) *Database {
	return &Database{
		db: memdb.New(comparer.DefaultComparer, size),
	}
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return database.ErrClosed
	}
	db.db = nil
	return nil
}

func (db *Database) isClosed() bool {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return db.db == nil
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return false, database.ErrClosed
	}
	return db.db.Contains(key), nil
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return nil, database.ErrClosed
	}
	value, err := db.db.Get(key)
	if errors.Is(err, memdb.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	// [value] aliases the buffer of the skiplist.
	return slices.Clone(value), err
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return database.ErrClosed
	}
	return db.db.Put(key, value)
}

func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return database.ErrClosed
	}
	return ignoreNotFound(db.db.Delete(key))
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix returns an iterator over a snapshot of the
// pairs in range. Later writes aren't observed by the iterator.
func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}

	r := util.BytesPrefix(prefix)
	if bytes.Compare(start, r.Start) > 0 {
		r.Start = start
	}
	it := db.db.NewIterator(r)
	defer it.Release()

	snapshot := &iterator{db: db}
	for it.Next() {
		snapshot.keys = append(snapshot.keys, slices.Clone(it.Key()))
		snapshot.values = append(snapshot.values, slices.Clone(it.Value()))
	}
	return snapshot
}

// Compact rewrites the live pairs into a new buffer, releasing the memory of
// overwritten and deleted values. The range is ignored.
func (db *Database) Compact(_, _ []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return database.ErrClosed
	}
	compacted := memdb.New(comparer.DefaultComparer, db.db.Size())
	it := db.db.NewIterator(nil)
	defer it.Release()
	for it.Next() {
		if err := compacted.Put(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	db.db = compacted
	return nil
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	if db.isClosed() {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, memdb.ErrNotFound) {
		return nil
	}
	return err
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.db == nil {
		return database.ErrClosed
	}
	for _, op := range b.Ops {
		var err error
		if op.Delete {
			err = ignoreNotFound(b.db.db.Delete(op.Key))
		} else {
			err = b.db.db.Put(op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}

type iterator struct {
	db          *Database
	initialized bool
	keys        [][]byte
	values      [][]byte
	err         error
}

func (it *iterator) Next() bool {
	if it.db.isClosed() {
		it.keys = nil
		it.values = nil
		it.err = database.ErrClosed
		return false
	}

	if !it.initialized {
		it.initialized = true
		return len(it.keys) > 0
	}
	if len(it.keys) > 0 {
		it.keys = it.keys[1:]
		it.values = it.values[1:]
	}
	return len(it.keys) > 0
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	if len(it.keys) > 0 {
		return it.keys[0]
	}
	return nil
}

func (it *iterator) Value() []byte {
	if len(it.values) > 0 {
		return it.values[0]
	}
	return nil
}

func (it *iterator) Release() {
	it.keys = nil
	it.values = nil
}
