// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package core

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/sharedmemory/core/state"
	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/database/prefixdb"
	"github.com/ava-labs/sharedmemory/database/versiondb"
	"github.com/ava-labs/sharedmemory/plugin/evm/atomic"
	"github.com/ava-labs/sharedmemory/precompile/modules"
	"github.com/ava-labs/sharedmemory/precompile/precompileconfig"
	"github.com/ava-labs/sharedmemory/snow"
	"github.com/ava-labs/sharedmemory/trace"
	"github.com/ava-labs/sharedmemory/utils/timer/mockable"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"

	oteltrace "go.opentelemetry.io/otel/trace"

	_ "github.com/ava-labs/sharedmemory/precompile/registry"
)

var (
	ErrNonceMismatch = errors.New("nonce mismatch")

	statePrefix    = []byte("state")
	metadataPrefix = []byte("metadata")

	lastAcceptedHeightKey    = []byte("lastAcceptedHeight")
	lastAcceptedTimestampKey = []byte("lastAcceptedTimestamp")
)

// Block is a set of transactions executed at the same height and timestamp.
type Block struct {
	Height    uint64
	Timestamp uint64
	Receipts  []*Receipt
}

// Chain executes precompile calls for one chain and accepts the resulting
// blocks. Transactions are executed one at a time in the order they are
// issued, and the state they produce becomes durable together with their
// shared memory operations when the block is accepted.
type Chain struct {
	ctx      *snow.Context
	upgrades UpgradeConfig
	tracer   trace.Tracer
	metrics  *metrics
	clock    mockable.Clock

	lock sync.Mutex

	// Writes to [db] are buffered until accept. [state] is committed to
	// [stateDB], a prefix of [db].
	db      *versiondb.Database
	metaDB  database.Database
	stateDB database.Database
	state   *state.StateDB
	utxos   *atomic.Store

	lastAccepted *Block
	pending      *Block // nil if no block is being built
}

// NewChain loads the chain stored in [db], initializing it from [genesis] if
// [db] is empty.
//
// Accepted state is written in the same batch as the shared memory
// operations of the block, so [db] must be backed by the same base database
// as [ctx.SharedMemory], typically as a prefixdb of it. Otherwise the state
// of blocks with atomic operations is written to the shared memory database
// instead of [db].
func NewChain(
	ctx *snow.Context,
	db database.Database,
	genesis *Genesis,
	namespace string,
	registerer prometheus.Registerer,
	tracer trace.Tracer,
) (*Chain, error) {
	if err := genesis.Verify(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	metrics, err := newMetrics(namespace, registerer)
	if err != nil {
		return nil, err
	}

	vdb := versiondb.New(db)
	c := &Chain{
		ctx:      ctx,
		upgrades: genesis.Config,
		tracer:   tracer,
		metrics:  metrics,
		db:       vdb,
		metaDB:   prefixdb.New(metadataPrefix, vdb),
		stateDB:  prefixdb.New(statePrefix, vdb),
		utxos:    atomic.NewStore(ctx.SharedMemory),
	}
	c.state = state.New(c.stateDB)

	initialized, err := c.metaDB.Has(lastAcceptedHeightKey)
	if err != nil {
		return nil, err
	}
	if initialized {
		height, err := database.GetUInt64(c.metaDB, lastAcceptedHeightKey)
		if err != nil {
			return nil, err
		}
		timestamp, err := database.GetUInt64(c.metaDB, lastAcceptedTimestampKey)
		if err != nil {
			return nil, err
		}
		c.lastAccepted = &Block{
			Height:    height,
			Timestamp: timestamp,
		}
		return c, nil
	}

	genesisBlock := &Block{Timestamp: genesis.Timestamp}
	genesis.apply(c.state)
	if err := c.applyActivations(nil, genesisBlock); err != nil {
		return nil, err
	}
	if err := c.writeBlock(genesisBlock); err != nil {
		return nil, err
	}
	if err := c.db.Commit(); err != nil {
		return nil, err
	}
	c.lastAccepted = genesisBlock

	ctx.Log.Info("initialized chain from genesis",
		zap.Stringer("chainID", ctx.ChainID),
		zap.Uint64("timestamp", genesis.Timestamp),
		zap.Int("numAccounts", len(genesis.Alloc)),
	)
	return c, nil
}

// Clock is the clock used to timestamp new blocks.
func (c *Chain) Clock() *mockable.Clock {
	return &c.clock
}

func (c *Chain) SnowContext() *snow.Context {
	return c.ctx
}

func (c *Chain) LastAccepted() *Block {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.lastAccepted
}

// IssueTx executes [tx] on top of the block being built.
//
// An invalid transaction is dropped and only the error is returned. A valid
// transaction is included even if its execution fails: its nonce is
// consumed, every other change is reverted, and the execution error is
// returned together with the failed receipt.
func (c *Chain) IssueTx(ctx context.Context, tx *Tx) (*Receipt, error) {
	txHash := tx.Hash()
	_, span := c.tracer.Start(ctx, "Chain.IssueTx", oteltrace.WithAttributes(
		attribute.Stringer("txHash", txHash),
		attribute.Stringer("to", tx.To),
	))
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	receipt, err := c.issueTx(tx, txHash)
	if receipt == nil && err != nil {
		c.metrics.txsRejected.Inc()
		c.ctx.Log.Debug("dropped invalid tx",
			zap.Stringer("txHash", txHash),
			zap.Error(err),
		)
	}
	return receipt, err
}

func (c *Chain) issueTx(tx *Tx, txHash common.Hash) (*Receipt, error) {
	if c.pending == nil {
		if err := c.startBlock(); err != nil {
			return nil, err
		}
	}
	block := c.pending

	if nonce := c.state.GetNonce(tx.From); nonce != tx.Nonce {
		return nil, fmt.Errorf("%w: %s has nonce %d, tx has %d", ErrNonceMismatch, tx.From, nonce, tx.Nonce)
	}

	rules := c.rules(block.Timestamp)
	intrinsicGas, err := CheckPredicates(rules, &precompileconfig.PredicateContext{SnowCtx: c.ctx}, tx)
	if err != nil {
		return nil, err
	}
	module, ok := c.activeModule(tx.To, block.Timestamp)
	if !ok {
		return nil, fmt.Errorf("%w: %s", vmerrs.ErrNoPrecompile, tx.To)
	}

	c.state.Prepare(txHash, len(block.Receipts), predicate.FromAccessList(rules, tx.AccessList))
	txSnapshot := c.state.Snapshot()
	c.state.SetNonce(tx.From, tx.Nonce+1)

	var (
		stateSnapshot = c.state.Snapshot()
		utxoSnapshot  = c.utxos.Snapshot()
		accessible    = c.accessibleState(block)
	)
	ret, remainingGas, execErr := module.Contract.Run(accessible, tx.From, tx.To, tx.Data, tx.Gas-intrinsicGas, false)

	receipt := &Receipt{
		TxHash:      txHash,
		TxIndex:     uint(len(block.Receipts)),
		BlockNumber: block.Height,
		Status:      ReceiptStatusSuccessful,
		GasUsed:     tx.Gas - remainingGas,
		ReturnData:  ret,
	}
	if execErr != nil {
		c.state.RevertToSnapshot(stateSnapshot)
		if err := c.utxos.RevertToSnapshot(utxoSnapshot); err != nil {
			return nil, err
		}
		// Only a revert refunds the unused gas.
		if !errors.Is(execErr, vmerrs.ErrExecutionReverted) {
			receipt.GasUsed = tx.Gas
		}
		receipt.Status = ReceiptStatusFailed
		receipt.ReturnData = nil
		receipt.Err = execErr
		c.metrics.txsFailed.Inc()
	}
	if err := c.state.Error(); err != nil {
		// The tx is dropped, so none of its changes, including the nonce,
		// may reach the block.
		c.state.RevertToSnapshot(txSnapshot)
		c.state.ClearError()
		c.state.Finalise()
		if revertErr := c.utxos.RevertToSnapshot(utxoSnapshot); revertErr != nil {
			return nil, revertErr
		}
		return nil, fmt.Errorf("failed to execute tx %s: %w", txHash, err)
	}
	receipt.Logs = c.state.Logs()
	c.state.Finalise()

	block.Receipts = append(block.Receipts, receipt)
	c.metrics.txsIssued.Inc()
	c.metrics.utxosPending.Set(float64(c.utxos.Len()))

	c.ctx.Log.Debug("issued tx",
		zap.Stringer("txHash", txHash),
		zap.Stringer("from", tx.From),
		zap.Uint64("height", block.Height),
		zap.Uint64("gasUsed", receipt.GasUsed),
		zap.Error(execErr),
	)
	return receipt, execErr
}

// Call executes [data] against [to] without changing any state.
func (c *Chain) Call(ctx context.Context, from common.Address, to common.Address, data []byte, gas uint64) ([]byte, error) {
	_, span := c.tracer.Start(ctx, "Chain.Call", oteltrace.WithAttributes(
		attribute.Stringer("to", to),
	))
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	block := c.pending
	if block == nil {
		block = c.nextBlock()
	}
	module, ok := c.activeModule(to, block.Timestamp)
	if !ok {
		return nil, fmt.Errorf("%w: %s", vmerrs.ErrNoPrecompile, to)
	}

	var (
		stateSnapshot = c.state.Snapshot()
		utxoSnapshot  = c.utxos.Snapshot()
	)
	ret, _, err := module.Contract.Run(c.accessibleState(block), from, to, data, gas, true)
	c.state.RevertToSnapshot(stateSnapshot)
	if revertErr := c.utxos.RevertToSnapshot(utxoSnapshot); revertErr != nil {
		return nil, revertErr
	}
	return ret, err
}

// Accept makes the block being built durable. Its state changes and shared
// memory operations are written in a single atomic batch. If no block is
// being built, an empty block is accepted.
func (c *Chain) Accept(ctx context.Context) (*Block, error) {
	_, span := c.tracer.Start(ctx, "Chain.Accept")
	defer span.End()

	c.lock.Lock()
	defer c.lock.Unlock()

	start := time.Now()
	if c.pending == nil {
		if err := c.startBlock(); err != nil {
			return nil, err
		}
	}
	block := c.pending
	numOps := c.utxos.Len()
	exported, imported := c.utxos.Counts()
	span.SetAttributes(
		attribute.Int64("height", int64(block.Height)),
		attribute.Int("numTxs", len(block.Receipts)),
		attribute.Int("numAtomicOps", numOps),
	)

	if err := c.writeBlock(block); err != nil {
		return nil, err
	}
	batch, err := c.db.CommitBatch()
	if err != nil {
		return nil, fmt.Errorf("failed to create commit batch: %w", err)
	}
	if err := c.utxos.Accept(batch); err != nil {
		c.ctx.Log.Error("failed to apply atomic operations",
			zap.Uint64("height", block.Height),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to accept block %d: %w", block.Height, err)
	}
	c.db.Abort()

	c.lastAccepted = block
	c.pending = nil
	c.metrics.blocksAccepted.Inc()
	c.metrics.utxosExported.Add(float64(exported))
	c.metrics.utxosImported.Add(float64(imported))
	c.metrics.utxosPending.Set(0)
	c.metrics.acceptDuration.Observe(time.Since(start).Seconds())

	c.ctx.Log.Info("accepted block",
		zap.Stringer("chainID", c.ctx.ChainID),
		zap.Uint64("height", block.Height),
		zap.Uint64("timestamp", block.Timestamp),
		zap.Int("numTxs", len(block.Receipts)),
		zap.Int("numAtomicOps", numOps),
	)
	return block, nil
}

// Reject drops the block being built.
func (c *Chain) Reject() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.state.Abort()
	c.utxos.Reset()
	c.db.Abort()
	c.pending = nil
	c.metrics.utxosPending.Set(0)
}

func (c *Chain) GetBalance(addr common.Address) (*uint256.Int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	balance := c.state.GetBalance(addr)
	return balance, c.state.Error()
}

func (c *Chain) GetBalanceMultiCoin(addr common.Address, assetID common.Hash) (*big.Int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	balance := c.state.GetBalanceMultiCoin(addr, assetID)
	return balance, c.state.Error()
}

func (c *Chain) GetNonce(addr common.Address) (uint64, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	nonce := c.state.GetNonce(addr)
	return nonce, c.state.Error()
}

// nextBlock returns the header of the block that would be built now.
func (c *Chain) nextBlock() *Block {
	timestamp := c.clock.Unix()
	if timestamp < c.lastAccepted.Timestamp {
		timestamp = c.lastAccepted.Timestamp
	}
	return &Block{
		Height:    c.lastAccepted.Height + 1,
		Timestamp: timestamp,
	}
}

func (c *Chain) startBlock() error {
	block := c.nextBlock()
	parentTimestamp := c.lastAccepted.Timestamp
	if err := c.applyActivations(&parentTimestamp, block); err != nil {
		return err
	}
	c.pending = block
	return nil
}

// applyActivations configures every precompile whose upgrade takes effect
// between [parentTimestamp] and [block].
func (c *Chain) applyActivations(parentTimestamp *uint64, block *Block) error {
	blockCtx := &blockContext{
		number:    block.Height,
		timestamp: block.Timestamp,
	}
	// RegisteredModules is sorted by address so activations are applied in a
	// deterministic order.
	for _, module := range modules.RegisteredModules() {
		for _, cfg := range c.upgrades.ActivatingConfigs(module.Address, parentTimestamp, block.Timestamp) {
			if cfg.IsDisabled() {
				c.ctx.Log.Info("disabling precompile",
					zap.String("name", module.ConfigKey),
					zap.Uint64("timestamp", block.Timestamp),
				)
				continue
			}
			c.ctx.Log.Info("activating precompile",
				zap.String("name", module.ConfigKey),
				zap.Uint64("timestamp", block.Timestamp),
			)
			if err := module.Configure(cfg, c.state, blockCtx); err != nil {
				return fmt.Errorf("could not configure precompile, name: %s, reason: %w", module.ConfigKey, err)
			}
		}
	}
	return nil
}

func (c *Chain) rules(timestamp uint64) Rules {
	rules := Rules{
		Predicaters: make(map[common.Address]precompileconfig.Predicater),
	}
	for _, module := range modules.RegisteredModules() {
		cfg, ok := c.upgrades.ActiveConfig(module.Address, timestamp)
		if !ok {
			continue
		}
		if predicater, ok := cfg.(precompileconfig.Predicater); ok {
			rules.Predicaters[module.Address] = predicater
		}
	}
	return rules
}

func (c *Chain) activeModule(address common.Address, timestamp uint64) (modules.Module, bool) {
	if _, ok := c.upgrades.ActiveConfig(address, timestamp); !ok {
		return modules.Module{}, false
	}
	return modules.GetPrecompileModuleByAddress(address)
}

func (c *Chain) accessibleState(block *Block) *accessibleState {
	return &accessibleState{
		stateDB: c.state,
		blockContext: &blockContext{
			number:    block.Height,
			timestamp: block.Timestamp,
		},
		snowCtx: c.ctx,
		utxos:   c.utxos,
	}
}

// writeBlock commits the state and the metadata of [block] to [c.db].
func (c *Chain) writeBlock(block *Block) error {
	if err := c.state.Commit(c.stateDB); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	if err := database.PutUInt64(c.metaDB, lastAcceptedHeightKey, block.Height); err != nil {
		return err
	}
	return database.PutUInt64(c.metaDB, lastAcceptedTimestampKey, block.Timestamp)
}
