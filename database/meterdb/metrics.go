// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meterdb

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

// nanosecondsBuckets are the histogram buckets for the latency of a call
var nanosecondsBuckets = []float64{
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

func newMetric(namespace, name string) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      fmt.Sprintf("Latency of a %s call in nanoseconds", name),
		Buckets:   nanosecondsBuckets,
	})
}

type metrics struct {
	has,
	get,
	put,
	delete,
	newBatch,
	newIterator,
	compact,
	close,
	bPut,
	bDelete,
	bWrite,
	bReset,
	bReplay,
	iNext prometheus.Histogram
}

func (m *metrics) Initialize(
	namespace string,
	registerer prometheus.Registerer,
) error {
	m.has = newMetric(namespace, "has")
	m.get = newMetric(namespace, "get")
	m.put = newMetric(namespace, "put")
	m.delete = newMetric(namespace, "delete")
	m.newBatch = newMetric(namespace, "new_batch")
	m.newIterator = newMetric(namespace, "new_iterator")
	m.compact = newMetric(namespace, "compact")
	m.close = newMetric(namespace, "close")
	m.bPut = newMetric(namespace, "batch_put")
	m.bDelete = newMetric(namespace, "batch_delete")
	m.bWrite = newMetric(namespace, "batch_write")
	m.bReset = newMetric(namespace, "batch_reset")
	m.bReplay = newMetric(namespace, "batch_replay")
	m.iNext = newMetric(namespace, "iterator_next")

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.has),
		registerer.Register(m.get),
		registerer.Register(m.put),
		registerer.Register(m.delete),
		registerer.Register(m.newBatch),
		registerer.Register(m.newIterator),
		registerer.Register(m.compact),
		registerer.Register(m.close),
		registerer.Register(m.bPut),
		registerer.Register(m.bDelete),
		registerer.Register(m.bWrite),
		registerer.Register(m.bReset),
		registerer.Register(m.bReplay),
		registerer.Register(m.iNext),
	)
	return errs.Err
}
