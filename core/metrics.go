// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

type metrics struct {
	txsIssued      prometheus.Counter
	txsFailed      prometheus.Counter
	txsRejected    prometheus.Counter
	utxosPending   prometheus.Gauge
	utxosExported  prometheus.Counter
	utxosImported  prometheus.Counter
	blocksAccepted prometheus.Counter
	acceptDuration prometheus.Histogram
}

func newMetrics(namespace string, registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_issued",
			Help:      "Number of transactions included in a block",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_failed",
			Help:      "Number of included transactions whose execution reverted",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_rejected",
			Help:      "Number of invalid transactions that were dropped",
		}),
		utxosPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "atomic_ops_pending",
			Help:      "Number of shared memory operations waiting for the block to be accepted",
		}),
		utxosExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utxos_exported",
			Help:      "Number of UTXOs exported by accepted blocks",
		}),
		utxosImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utxos_imported",
			Help:      "Number of UTXOs imported by accepted blocks",
		}),
		blocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_accepted",
			Help:      "Number of accepted blocks",
		}),
		acceptDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_accept_duration_seconds",
			Help:      "Time spent writing an accepted block",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.txsIssued),
		registerer.Register(m.txsFailed),
		registerer.Register(m.txsRejected),
		registerer.Register(m.utxosPending),
		registerer.Register(m.utxosExported),
		registerer.Register(m.utxosImported),
		registerer.Register(m.blocksAccepted),
		registerer.Register(m.acceptDuration),
	)
	return m, errs.Err
}
