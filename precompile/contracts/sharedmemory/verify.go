// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/utils/set"
	"github.com/ava-labs/sharedmemory/vms/components/avax"
	"github.com/ava-labs/sharedmemory/vms/evm/predicate"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

// ImportMessageHash returns the message an owner of [utxoID] signs to let
// [importer] consume it on the chain it was exported to.
func ImportMessageHash(sourceChainID ids.ID, utxoID ids.ID, importer common.Address) []byte {
	hash := hashing.ComputeHash256Ranges(sourceChainID[:], utxoID[:], importer[:])
	return hash[:]
}

// NewPredicate packs [cred] into the storage keys of an access list tuple.
func NewPredicate(cred *secp256k1fx.Credential) predicate.Predicate {
	return predicate.New(cred.Bytes())
}

// ParsePredicate recovers the credential carried by [pred].
func ParsePredicate(pred predicate.Predicate) (*secp256k1fx.Credential, error) {
	b, err := pred.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPredicate, err)
	}
	cred, err := secp256k1fx.ParseCredential(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPredicate, err)
	}
	return cred, nil
}

// VerifyPredicate checks that [importer] may spend [utxo], exported by
// [sourceChainID], at [timestamp].
//
// An owner is satisfied if it is the importer or if it signed the import
// message in any of [predicates]. At least one predicate must be declared.
func VerifyPredicate(
	utxo *avax.UTXO,
	sourceChainID ids.ID,
	importer common.Address,
	timestamp uint64,
	predicates []predicate.Predicate,
) error {
	utxoID, err := utxo.ComputeID()
	if err != nil {
		return err
	}
	msgHash := ImportMessageHash(sourceChainID, utxoID, importer)

	signers := set.Of(ids.ShortID(importer))
	for i, pred := range predicates {
		cred, err := ParsePredicate(pred)
		if err != nil {
			return fmt.Errorf("predicate %d: %w", i, err)
		}
		predSigners, err := cred.Signers(msgHash)
		if err != nil {
			return fmt.Errorf("%w: predicate %d: %w", ErrMalformedPredicate, i, err)
		}
		signers.Union(predSigners)
	}

	if len(predicates) == 0 {
		return fmt.Errorf("%w: no predicate declared for %s", ErrUnauthorized, utxoID)
	}

	owners := utxo.Out.OutputOwners
	if owners.Locktime > timestamp {
		return fmt.Errorf("%w: locked until %d, block time %d", ErrUnauthorized, owners.Locktime, timestamp)
	}

	satisfied := uint32(0)
	for _, addr := range owners.Addrs {
		if signers.Contains(addr) {
			satisfied++
		}
	}
	if satisfied < owners.Threshold {
		return fmt.Errorf("%w: %d of %d required owners", ErrUnauthorized, satisfied, owners.Threshold)
	}
	return nil
}
