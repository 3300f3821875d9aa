// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package node runs a set of chains sharing one atomic memory and serves
// their APIs.
package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ava-labs/sharedmemory/api/sharedmemory"
	"github.com/ava-labs/sharedmemory/chains/atomic"
	"github.com/ava-labs/sharedmemory/cmd/simulator/worker"
	"github.com/ava-labs/sharedmemory/config"
	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/leveldb"
	"github.com/ava-labs/sharedmemory/database/memdb"
	"github.com/ava-labs/sharedmemory/database/meterdb"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/snow/validators"
	"github.com/ava-labs/sharedmemory/trace"
	"github.com/ava-labs/sharedmemory/utils/constants"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/utils/logging"
	"github.com/ava-labs/sharedmemory/utils/wrappers"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var (
	// Aliases of the simulated chains. They all run on the primary network.
	Aliases = []string{"X", "C"}

	atomicPrefix = []byte("atomic")
	avaxAssetID  = ids.ID(hashing.ComputeHash256Array([]byte("AVAX")))
)

// ChainID returns the ID of the chain named [alias].
func ChainID(alias string) ids.ID {
	return ids.ID(hashing.ComputeHash256Array([]byte(alias)))
}

type Node struct {
	log        logging.Logger
	logFactory logging.Factory
	config     config.Config

	db       database.Database
	tracer   trace.Tracer
	registry *prometheus.Registry
	chains   []*worker.Chain
	router   *mux.Router
}

// New opens the database described by [cfg] and loads every chain, creating
// them from [genesis] if the database is empty.
func New(cfg config.Config, genesis *core.Genesis, logFactory logging.Factory) (*Node, error) {
	log, err := logFactory.Make("node")
	if err != nil {
		return nil, err
	}
	n := &Node{
		log:        log,
		logFactory: logFactory,
		config:     cfg,
		registry:   prometheus.NewRegistry(),
		router:     mux.NewRouter(),
	}

	n.tracer, err = trace.New(cfg.TraceConfig)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize tracer: %w", err)
	}

	if err := n.initDatabase(); err != nil {
		_ = n.tracer.Close()
		return nil, err
	}
	if err := n.initChains(genesis); err != nil {
		_ = n.Close()
		return nil, err
	}
	if cfg.HTTPConfig.MetricsEnabled {
		n.router.Handle("/ext/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}))
	}
	return n, nil
}

func (n *Node) initDatabase() error {
	var (
		db  database.Database
		err error
	)
	switch n.config.DatabaseConfig.Type {
	case config.LevelDB:
		db, err = leveldb.New(n.config.DatabaseConfig.Path, n.log)
		if err != nil {
			return fmt.Errorf("couldn't open leveldb at %q: %w", n.config.DatabaseConfig.Path, err)
		}
	case config.MemDB:
		db = memdb.New()
	default:
		return fmt.Errorf("unknown database type %q", n.config.DatabaseConfig.Type)
	}

	n.db, err = meterdb.New(constants.AppName+"_db", n.registry, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	n.log.Info("initialized database",
		zap.String("type", n.config.DatabaseConfig.Type),
		zap.String("path", n.config.DatabaseConfig.Path),
	)
	return nil
}

func (n *Node) initChains(genesis *core.Genesis) error {
	memory := atomic.NewMemory(prefixdb.New(atomicPrefix, n.db))

	registry := validators.NewChainRegistry()
	for _, alias := range Aliases {
		registry.Register(ChainID(alias), constants.PrimaryNetworkID)
	}
	validatorState := validators.Trace(registry, "validators", n.tracer)

	for _, alias := range Aliases {
		chainID := ChainID(alias)
		chainLog, err := n.logFactory.MakeChain(alias)
		if err != nil {
			return err
		}
		ctx := &snow.Context{
			NetworkID:      n.config.NetworkID,
			SubnetID:       constants.PrimaryNetworkID,
			ChainID:        chainID,
			AVAXAssetID:    avaxAssetID,
			Log:            chainLog,
			SharedMemory:   memory.NewSharedMemory(chainID),
			ValidatorState: validatorState,
		}
		chain, err := core.NewChain(
			ctx,
			prefixdb.New(chainID[:], n.db),
			genesis,
			fmt.Sprintf("%s_%s_chain", constants.AppName, alias),
			n.registry,
			n.tracer,
		)
		if err != nil {
			return fmt.Errorf("couldn't create %s-Chain: %w", alias, err)
		}

		handler, err := sharedmemory.NewHandler(chain)
		if err != nil {
			return err
		}
		n.router.Handle("/ext/bc/"+alias+"/"+sharedmemory.ServiceName, handler)
		n.router.Handle("/ext/bc/"+chainID.String()+"/"+sharedmemory.ServiceName, handler)

		lastAccepted := chain.LastAccepted()
		n.log.Info("loaded chain",
			zap.String("alias", alias),
			zap.Stringer("chainID", chainID),
			zap.Uint64("height", lastAccepted.Height),
		)
		n.chains = append(n.chains, &worker.Chain{
			Alias: alias,
			Chain: chain,
		})
	}
	return nil
}

func (n *Node) Chains() []*worker.Chain {
	return n.chains
}

// Handler serves the APIs of every chain and the metrics. Responses are
// gzipped when the client accepts it.
func (n *Node) Handler() http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   n.config.HTTPConfig.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(n.router)
	return gziphandler.GzipHandler(corsHandler)
}

// Serve serves [Handler] on the configured address until [ctx] is done.
func (n *Node) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(n.config.HTTPConfig.Host, strconv.Itoa(int(n.config.HTTPConfig.Port)))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("couldn't listen on %s: %w", addr, err)
	}
	server := &http.Server{
		Handler:           n.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()
	n.log.Info("serving APIs",
		zap.Stringer("address", listener.Addr()),
		zap.Strings("allowedOrigins", n.config.HTTPConfig.AllowedOrigins),
	)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (n *Node) Close() error {
	errs := wrappers.Errs{}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	errs.Add(n.tracer.Close())
	n.log.Info("node closed")
	return errs.Err
}
