// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package atomic

import (
	"errors"
	"fmt"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/utils"
	"github.com/ava-labs/sharedmemory/utils/set"
	"github.com/ava-labs/sharedmemory/vms/components/avax"

	avalancheatomic "github.com/ava-labs/sharedmemory/chains/atomic"
)

var (
	_ contract.UTXOStore = (*Store)(nil)

	errDuplicatedUTXO = errors.New("utxo already exported")
	errInvalidRevert  = errors.New("invalid snapshot to revert to")
)

// Store is the view of shared memory the precompile uses while a block is
// being built. Exports and imports are buffered until the block is accepted,
// at which point they are applied to shared memory together with the
// chain's own state. Every change is journaled so that a reverted
// transaction leaves no trace.
type Store struct {
	sharedMemory avalancheatomic.SharedMemory

	// peerChainID -> utxoID -> UTXO exported to the peer
	puts map[ids.ID]map[ids.ID]*avax.UTXO
	// peerChainID -> IDs of UTXOs imported from the peer
	removes map[ids.ID]set.Set[ids.ID]

	journal []journalEntry
}

type journalEntry struct {
	peerChainID ids.ID
	utxoID      ids.ID
	isRemove    bool
}

func NewStore(sharedMemory avalancheatomic.SharedMemory) *Store {
	return &Store{
		sharedMemory: sharedMemory,
		puts:         make(map[ids.ID]map[ids.ID]*avax.UTXO),
		removes:      make(map[ids.ID]set.Set[ids.ID]),
	}
}

// GetUTXO returns the UTXO [utxoID] that [peerChainID] exported to this chain
// if it has not been imported yet.
func (s *Store) GetUTXO(peerChainID ids.ID, utxoID ids.ID) (*avax.UTXO, error) {
	if removed := s.removes[peerChainID]; removed.Contains(utxoID) {
		return nil, database.ErrNotFound
	}
	values, err := s.sharedMemory.Get(peerChainID, [][]byte{utxoID[:]})
	if err != nil {
		return nil, err
	}
	utxo, err := avax.ParseUTXO(values[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse utxo %s from %s: %w", utxoID, peerChainID, err)
	}
	return utxo, nil
}

func (s *Store) AddUTXO(peerChainID ids.ID, utxo *avax.UTXO) error {
	utxoID, err := utxo.ComputeID()
	if err != nil {
		return err
	}
	outbound, ok := s.puts[peerChainID]
	if !ok {
		outbound = make(map[ids.ID]*avax.UTXO)
		s.puts[peerChainID] = outbound
	}
	if _, ok := outbound[utxoID]; ok {
		return fmt.Errorf("%w: %s to %s", errDuplicatedUTXO, utxoID, peerChainID)
	}
	outbound[utxoID] = utxo
	s.journal = append(s.journal, journalEntry{
		peerChainID: peerChainID,
		utxoID:      utxoID,
	})
	return nil
}

func (s *Store) DeleteUTXO(peerChainID ids.ID, utxoID ids.ID) error {
	if _, err := s.GetUTXO(peerChainID, utxoID); err != nil {
		return err
	}
	removed := s.removes[peerChainID]
	removed.Add(utxoID)
	s.removes[peerChainID] = removed
	s.journal = append(s.journal, journalEntry{
		peerChainID: peerChainID,
		utxoID:      utxoID,
		isRemove:    true,
	})
	return nil
}

// Snapshot returns an identifier for the current set of pending operations.
func (s *Store) Snapshot() int {
	return len(s.journal)
}

// RevertToSnapshot undoes every operation performed after [snapshot] was
// taken.
func (s *Store) RevertToSnapshot(snapshot int) error {
	if snapshot < 0 || snapshot > len(s.journal) {
		return fmt.Errorf("%w: %d not in [0, %d]", errInvalidRevert, snapshot, len(s.journal))
	}
	for i := len(s.journal) - 1; i >= snapshot; i-- {
		entry := s.journal[i]
		if entry.isRemove {
			removed := s.removes[entry.peerChainID]
			removed.Remove(entry.utxoID)
			if removed.Len() == 0 {
				delete(s.removes, entry.peerChainID)
			}
			continue
		}
		outbound := s.puts[entry.peerChainID]
		delete(outbound, entry.utxoID)
		if len(outbound) == 0 {
			delete(s.puts, entry.peerChainID)
		}
	}
	s.journal = s.journal[:snapshot]
	return nil
}

// Len returns the number of pending operations.
func (s *Store) Len() int {
	return len(s.journal)
}

// Counts returns the number of pending exports and imports.
func (s *Store) Counts() (exported int, imported int) {
	for _, outbound := range s.puts {
		exported += len(outbound)
	}
	for _, removed := range s.removes {
		imported += removed.Len()
	}
	return exported, imported
}

// AtomicOps returns the pending operations grouped by peer chain. Keys and
// elements are sorted so the result is deterministic.
func (s *Store) AtomicOps() (map[ids.ID]*avalancheatomic.Requests, error) {
	ops := make(map[ids.ID]*avalancheatomic.Requests, len(s.puts)+len(s.removes))
	getRequests := func(peerChainID ids.ID) *avalancheatomic.Requests {
		requests, ok := ops[peerChainID]
		if !ok {
			requests = &avalancheatomic.Requests{}
			ops[peerChainID] = requests
		}
		return requests
	}

	for peerChainID, removed := range s.removes {
		utxoIDs := removed.List()
		utils.Sort(utxoIDs)
		requests := getRequests(peerChainID)
		for _, utxoID := range utxoIDs {
			utxoID := utxoID
			requests.RemoveRequests = append(requests.RemoveRequests, utxoID[:])
		}
	}

	for peerChainID, outbound := range s.puts {
		utxoIDs := make([]ids.ID, 0, len(outbound))
		for utxoID := range outbound {
			utxoIDs = append(utxoIDs, utxoID)
		}
		utils.Sort(utxoIDs)

		requests := getRequests(peerChainID)
		for _, utxoID := range utxoIDs {
			utxoID := utxoID
			utxo := outbound[utxoID]
			utxoBytes, err := utxo.Bytes()
			if err != nil {
				return nil, fmt.Errorf("failed to marshal utxo %s: %w", utxoID, err)
			}
			requests.PutRequests = append(requests.PutRequests, &avalancheatomic.Element{
				Key:    utxoID[:],
				Value:  utxoBytes,
				Traits: utxo.Out.Addresses(),
			})
		}
	}
	return ops, nil
}

// Accept atomically applies the pending operations to shared memory together
// with [batches] and clears the store.
func (s *Store) Accept(batches ...database.Batch) error {
	ops, err := s.AtomicOps()
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		if len(batches) == 0 {
			return nil
		}
		return avalancheatomic.WriteAll(batches[0], batches[1:]...)
	}
	if err := s.sharedMemory.Apply(ops, batches...); err != nil {
		return err
	}
	s.Reset()
	return nil
}

// Reset drops every pending operation.
func (s *Store) Reset() {
	s.puts = make(map[ids.ID]map[ids.ID]*avax.UTXO)
	s.removes = make(map[ids.ID]set.Set[ids.ID])
	s.journal = nil
}
