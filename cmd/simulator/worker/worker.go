// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package worker

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/sharedmemory/cmd/simulator/txs"
	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/contracts/sharedmemory"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/utils/logging"
)

var errNotEnoughChains = errors.New("at least two chains are required")

type Config struct {
	Rounds      int
	Amount      uint64 // nAVAX
	Concurrency int
}

// Chain is a chain the workers move funds between.
type Chain struct {
	Alias string
	*core.Chain
}

func (c *Chain) ID() ids.ID {
	return c.SnowContext().ChainID
}

// Keys returns the keys of [n] workers. They are derived from the worker
// index so that funds survive a restart on a persistent database.
func Keys(n int) ([]*ecdsa.PrivateKey, error) {
	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		seed := hashing.ComputeHash256([]byte(fmt.Sprintf("simulator worker %d", i)))
		key, err := crypto.ToECDSA(seed)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key %d: %w", i, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// FundedGenesis returns a copy of [base] crediting every key with enough AVAX
// to export [amount] nAVAX.
func FundedGenesis(base *core.Genesis, keys []*ecdsa.PrivateKey, amount uint64) *core.Genesis {
	genesis := &core.Genesis{}
	if base != nil {
		*genesis = *base
	}
	alloc := make(map[common.Address]core.GenesisAccount, len(genesis.Alloc)+len(keys))
	for addr, account := range genesis.Alloc {
		alloc[addr] = account
	}
	balance := new(big.Int).Mul(
		new(big.Int).SetUint64(amount),
		new(big.Int).SetUint64(sharedmemory.X2CRate),
	)
	for _, key := range keys {
		addr := crypto.PubkeyToAddress(key.PublicKey)
		account := alloc[addr]
		account.Balance = (*math.HexOrDecimal256)(balance)
		alloc[addr] = account
	}
	genesis.Alloc = alloc
	return genesis
}

type worker struct {
	log  logging.Logger
	key  *ecdsa.PrivateKey
	addr common.Address
}

func newWorker(log logging.Logger, key *ecdsa.PrivateKey) *worker {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return &worker{
		log:  log.With(zap.Stringer("worker", addr)),
		key:  key,
		addr: addr,
	}
}

// transfer moves [amount] nAVAX of the worker from [src] to [dst] and returns
// the time it took.
func (w *worker) transfer(ctx context.Context, src, dst *Chain, amount uint64) (time.Duration, error) {
	start := time.Now()

	nonce, err := src.GetNonce(w.addr)
	if err != nil {
		return 0, err
	}
	exportTx, err := txs.ExportAVAX(w.addr, nonce, amount, dst.ID(), w.addr)
	if err != nil {
		return 0, err
	}
	receipt, err := src.IssueTx(ctx, exportTx)
	if err != nil {
		return 0, fmt.Errorf("export from %s failed: %w", src.Alias, err)
	}
	utxoID, err := txs.ExportedUTXOID(receipt)
	if err != nil {
		return 0, err
	}
	if _, err := src.Accept(ctx); err != nil {
		return 0, err
	}

	nonce, err = dst.GetNonce(w.addr)
	if err != nil {
		return 0, err
	}
	importTx, err := txs.ImportAVAX(w.key, nonce, src.ID(), utxoID, amount*sharedmemory.X2CRate)
	if err != nil {
		return 0, err
	}
	if _, err := dst.IssueTx(ctx, importTx); err != nil {
		return 0, fmt.Errorf("import of %s into %s failed: %w", utxoID, dst.Alias, err)
	}
	if _, err := dst.Accept(ctx); err != nil {
		return 0, err
	}

	w.log.Debug("moved funds",
		zap.String("from", src.Alias),
		zap.String("to", dst.Alias),
		zap.Stringer("utxoID", utxoID),
		zap.Uint64("amount", amount),
	)
	return time.Since(start), nil
}

// work moves funds back and forth between the first two chains.
func (w *worker) work(ctx context.Context, chains []*Chain, cfg Config) error {
	var total time.Duration
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, dst := chains[0], chains[1]
		if round%2 == 1 {
			src, dst = dst, src
		}
		duration, err := w.transfer(ctx, src, dst, cfg.Amount)
		if err != nil {
			return err
		}
		total += duration
	}
	if cfg.Rounds > 0 {
		w.log.Info("worker finished",
			zap.Int("rounds", cfg.Rounds),
			zap.Duration("averageRound", total/time.Duration(cfg.Rounds)),
		)
	}
	return nil
}

// Run moves [cfg.Amount] nAVAX between the chains with [keys], one worker per
// key, until every worker has completed [cfg.Rounds] rounds. At most
// [cfg.Concurrency] workers run at once, or all of them if it is not positive.
func Run(ctx context.Context, log logging.Logger, cfg Config, chains []*Chain, keys []*ecdsa.PrivateKey) error {
	if len(chains) < 2 {
		return errNotEnoughChains
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}
	for _, key := range keys {
		w := newWorker(log, key)
		g.Go(func() error {
			return w.work(gctx, chains, cfg)
		})
	}
	return g.Wait()
}
