// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meterdb

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/sharedmemory/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database tracks the amount of time each operation takes
type Database struct {
	metrics
	db database.Database
}

// New returns a new database with added metrics
func New(
	namespace string,
	registerer prometheus.Registerer,
	db database.Database,
) (*Database, error) {
	meterDB := &Database{db: db}
	return meterDB, meterDB.metrics.Initialize(namespace, registerer)
}

func observe(h prometheus.Histogram, start time.Time) {
	h.Observe(float64(time.Since(start)))
}

func (db *Database) Has(key []byte) (bool, error) {
	defer observe(db.has, time.Now())
	return db.db.Has(key)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	defer observe(db.get, time.Now())
	return db.db.Get(key)
}

func (db *Database) Put(key, value []byte) error {
	defer observe(db.put, time.Now())
	return db.db.Put(key, value)
}

func (db *Database) Delete(key []byte) error {
	defer observe(db.delete, time.Now())
	return db.db.Delete(key)
}

func (db *Database) NewBatch() database.Batch {
	defer observe(db.newBatch, time.Now())
	return &batch{
		batch: db.db.NewBatch(),
		db:    db,
	}
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

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	defer observe(db.newIterator, time.Now())
	return &iterator{
		iterator: db.db.NewIteratorWithStartAndPrefix(start, prefix),
		db:       db,
	}
}

func (db *Database) Compact(start, limit []byte) error {
	defer observe(db.compact, time.Now())
	return db.db.Compact(start, limit)
}

func (db *Database) Close() error {
	defer observe(db.close, time.Now())
	return db.db.Close()
}

func (db *Database) HealthCheck(ctx context.Context) (interface{}, error) {
	return db.db.HealthCheck(ctx)
}

type batch struct {
	batch database.Batch
	db    *Database
}

func (b *batch) Put(key, value []byte) error {
	defer observe(b.db.bPut, time.Now())
	return b.batch.Put(key, value)
}

func (b *batch) Delete(key []byte) error {
	defer observe(b.db.bDelete, time.Now())
	return b.batch.Delete(key)
}

func (b *batch) Size() int {
	return b.batch.Size()
}

func (b *batch) Write() error {
	defer observe(b.db.bWrite, time.Now())
	return b.batch.Write()
}

func (b *batch) Reset() {
	defer observe(b.db.bReset, time.Now())
	b.batch.Reset()
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	defer observe(b.db.bReplay, time.Now())
	return b.batch.Replay(w)
}

func (b *batch) Inner() database.Batch {
	return b.batch.Inner()
}

type iterator struct {
	iterator database.Iterator
	db       *Database
}

func (it *iterator) Next() bool {
	defer observe(it.db.iNext, time.Now())
	return it.iterator.Next()
}

func (it *iterator) Error() error {
	return it.iterator.Error()
}

func (it *iterator) Key() []byte {
	return it.iterator.Key()
}

func (it *iterator) Value() []byte {
	return it.iterator.Value()
}

func (it *iterator) Release() {
	it.iterator.Release()
}
