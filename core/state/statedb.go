// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
)

var (
	_ contract.StateDB = (*StateDB)(nil)

	balancePrefix   = []byte{0x00}
	multiCoinPrefix = []byte{0x01}
	noncePrefix     = []byte{0x02}
	storagePrefix   = []byte{0x03}

	errNegativeBalance = errors.New("negative multicoin balance")
)

type multiCoinKey struct {
	addr    common.Address
	assetID common.Hash
}

type storageKey struct {
	addr common.Address
	key  common.Hash
}

// StateDB is the account state of a chain. Reads fall through to the
// database, writes are buffered until Commit. Every write is journaled so
// that a failed transaction can be reverted.
type StateDB struct {
	db database.KeyValueReader

	// The first error hit while reading from [db]. Reads that fail behave as
	// if the value is empty, so callers must check Error before committing.
	dbErr error

	balances          map[common.Address]*uint256.Int
	multiCoinBalances map[multiCoinKey]*big.Int
	nonces            map[common.Address]uint64
	storage           map[storageKey]common.Hash

	// Per-transaction state, cleared by Finalise.
	transientStorage map[storageKey]common.Hash
	predicates       map[common.Address][]predicate.Predicate
	txHash           common.Hash
	txIndex          int
	logs             []*types.Log
	logSize          uint

	journal journal
}

func New(db database.KeyValueReader) *StateDB {
	return &StateDB{
		db:                db,
		balances:          make(map[common.Address]*uint256.Int),
		multiCoinBalances: make(map[multiCoinKey]*big.Int),
		nonces:            make(map[common.Address]uint64),
		storage:           make(map[storageKey]common.Hash),
		transientStorage:  make(map[storageKey]common.Hash),
		predicates:        make(map[common.Address][]predicate.Predicate),
	}
}

// Error returns the first database error encountered while reading state.
func (s *StateDB) Error() error {
	return s.dbErr
}

// ClearError forgets a read error. It must only be called once every change
// made after the failed read has been reverted.
func (s *StateDB) ClearError() {
	s.dbErr = nil
}

func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

func (s *StateDB) get(key []byte) []byte {
	value, err := s.db.Get(key)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.setError(fmt.Errorf("failed to read %x: %w", key, err))
		return nil
	}
	return value
}

// Prepare sets the transaction the following state changes belong to.
// [predicates] are the access list predicates of the transaction grouped by
// address.
func (s *StateDB) Prepare(txHash common.Hash, txIndex int, predicates map[common.Address][]predicate.Predicate) {
	s.txHash = txHash
	s.txIndex = txIndex
	s.logs = nil
	if predicates == nil {
		predicates = make(map[common.Address][]predicate.Predicate)
	}
	s.predicates = predicates
}

func (s *StateDB) GetTxHash() common.Hash {
	return s.txHash
}

func (s *StateDB) GetPredicates(address common.Address) []predicate.Predicate {
	return s.predicates[address]
}

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if balance, ok := s.balances[addr]; ok {
		return new(uint256.Int).Set(balance)
	}
	return new(uint256.Int).SetBytes(s.get(balanceKey(addr)))
}

func (s *StateDB) setBalance(addr common.Address, balance *uint256.Int) {
	prev, ok := s.balances[addr]
	s.journal.append(balanceChange{
		addr:     addr,
		prev:     prev,
		wasClean: !ok,
	})
	s.balances[addr] = balance
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	balance := s.GetBalance(addr)
	s.setBalance(addr, balance.Add(balance, amount))
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	balance := s.GetBalance(addr)
	s.setBalance(addr, balance.Sub(balance, amount))
}

func (s *StateDB) GetBalanceMultiCoin(addr common.Address, assetID common.Hash) *big.Int {
	key := multiCoinKey{addr: addr, assetID: assetID}
	if balance, ok := s.multiCoinBalances[key]; ok {
		return new(big.Int).Set(balance)
	}
	return new(big.Int).SetBytes(s.get(key.bytes()))
}

func (s *StateDB) setBalanceMultiCoin(key multiCoinKey, balance *big.Int) {
	prev, ok := s.multiCoinBalances[key]
	s.journal.append(multiCoinChange{
		key:      key,
		prev:     prev,
		wasClean: !ok,
	})
	s.multiCoinBalances[key] = balance
}

func (s *StateDB) AddBalanceMultiCoin(addr common.Address, assetID common.Hash, amount *big.Int) {
	balance := s.GetBalanceMultiCoin(addr, assetID)
	s.setBalanceMultiCoin(multiCoinKey{addr: addr, assetID: assetID}, balance.Add(balance, amount))
}

// SubBalanceMultiCoin debits [amount] of [assetID]. The caller must have
// checked the balance is sufficient.
func (s *StateDB) SubBalanceMultiCoin(addr common.Address, assetID common.Hash, amount *big.Int) {
	balance := s.GetBalanceMultiCoin(addr, assetID)
	balance.Sub(balance, amount)
	if balance.Sign() < 0 {
		s.setError(fmt.Errorf("%w: %s of %s", errNegativeBalance, addr, assetID))
		return
	}
	s.setBalanceMultiCoin(multiCoinKey{addr: addr, assetID: assetID}, balance)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if nonce, ok := s.nonces[addr]; ok {
		return nonce
	}
	b := s.get(nonceKey(addr))
	if b == nil {
		return 0
	}
	nonce, err := database.ParseUInt64(b)
	if err != nil {
		s.setError(fmt.Errorf("failed to parse nonce of %s: %w", addr, err))
		return 0
	}
	return nonce
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	prev, ok := s.nonces[addr]
	s.journal.append(nonceChange{
		addr:     addr,
		prev:     prev,
		wasClean: !ok,
	})
	s.nonces[addr] = nonce
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	sk := storageKey{addr: addr, key: key}
	if value, ok := s.storage[sk]; ok {
		return value
	}
	return common.BytesToHash(s.get(sk.bytes()))
}

func (s *StateDB) SetState(addr common.Address, key common.Hash, value common.Hash) {
	sk := storageKey{addr: addr, key: key}
	prev, ok := s.storage[sk]
	s.journal.append(storageChange{
		key:      sk,
		prev:     prev,
		wasClean: !ok,
	})
	s.storage[sk] = value
}

func (s *StateDB) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	return s.transientStorage[storageKey{addr: addr, key: key}]
}

func (s *StateDB) SetTransientState(addr common.Address, key common.Hash, value common.Hash) {
	sk := storageKey{addr: addr, key: key}
	prev := s.transientStorage[sk]
	if prev == value {
		return
	}
	s.journal.append(transientStorageChange{
		key:  sk,
		prev: prev,
	})
	if value == (common.Hash{}) {
		delete(s.transientStorage, sk)
		return
	}
	s.transientStorage[sk] = value
}

func (s *StateDB) AddLog(addr common.Address, topics []common.Hash, data []byte, blockNumber uint64) {
	s.journal.append(addLogChange{})
	s.logs = append(s.logs, &types.Log{
		Address:     addr,
		Topics:      topics,
		Data:        common.CopyBytes(data),
		BlockNumber: blockNumber,
		TxHash:      s.txHash,
		TxIndex:     uint(s.txIndex),
		Index:       s.logSize,
	})
	s.logSize++
}

// Logs returns the logs emitted by the current transaction.
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

// GetLogData returns the topics and data of every log of the current
// transaction.
func (s *StateDB) GetLogData() (topics [][]common.Hash, data [][]byte) {
	for _, log := range s.logs {
		topics = append(topics, log.Topics)
		data = append(data, common.CopyBytes(log.Data))
	}
	return topics, data
}

func (s *StateDB) Snapshot() int {
	return s.journal.length()
}

func (s *StateDB) RevertToSnapshot(snapshot int) {
	if snapshot < 0 || snapshot > s.journal.length() {
		panic(fmt.Errorf("revision id %d cannot be reverted", snapshot))
	}
	s.journal.revert(s, snapshot)
}

// Finalise ends the current transaction. Its changes can no longer be
// reverted and its transient state is dropped.
func (s *StateDB) Finalise() {
	s.journal.reset()
	s.transientStorage = make(map[storageKey]common.Hash)
	s.predicates = make(map[common.Address][]predicate.Predicate)
	s.txHash = common.Hash{}
}

// Commit writes every buffered change to [w] and starts a new block.
func (s *StateDB) Commit(w database.KeyValueWriterDeleter) error {
	if s.dbErr != nil {
		return s.dbErr
	}
	s.Finalise()

	for addr, balance := range s.balances {
		if err := putOrDelete(w, balanceKey(addr), balance.Bytes()); err != nil {
			return err
		}
	}
	for key, balance := range s.multiCoinBalances {
		if err := putOrDelete(w, key.bytes(), balance.Bytes()); err != nil {
			return err
		}
	}
	for addr, nonce := range s.nonces {
		if err := database.PutUInt64(w, nonceKey(addr), nonce); err != nil {
			return err
		}
	}
	for key, value := range s.storage {
		if err := putOrDelete(w, key.bytes(), value.Bytes()); err != nil {
			return err
		}
	}

	s.balances = make(map[common.Address]*uint256.Int)
	s.multiCoinBalances = make(map[multiCoinKey]*big.Int)
	s.nonces = make(map[common.Address]uint64)
	s.storage = make(map[storageKey]common.Hash)
	s.logs = nil
	s.logSize = 0
	return nil
}

// Abort drops every buffered change.
func (s *StateDB) Abort() {
	s.Finalise()
	s.balances = make(map[common.Address]*uint256.Int)
	s.multiCoinBalances = make(map[multiCoinKey]*big.Int)
	s.nonces = make(map[common.Address]uint64)
	s.storage = make(map[storageKey]common.Hash)
	s.logs = nil
	s.logSize = 0
	s.dbErr = nil
}

func putOrDelete(w database.KeyValueWriterDeleter, key []byte, value []byte) error {
	if len(common.TrimLeftZeroes(value)) == 0 {
		return w.Delete(key)
	}
	return w.Put(key, value)
}

func balanceKey(addr common.Address) []byte {
	return concat(balancePrefix, addr[:])
}

func nonceKey(addr common.Address) []byte {
	return concat(noncePrefix, addr[:])
}

func (k multiCoinKey) bytes() []byte {
	return concat(multiCoinPrefix, k.addr[:], k.assetID[:])
}

func (k storageKey) bytes() []byte {
	return concat(storagePrefix, k.addr[:], k.key[:])
}

func concat(parts ...[]byte) []byte {
	var size int
	for _, part := range parts {
		size += len(part)
	}
	b := make([]byte, 0, size)
	for _, part := range parts {
		b = append(b, part...)
	}
	return b
}
