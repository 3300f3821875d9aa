// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1fx

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/set"
)

var errCantSpend = errors.New("unable to spend this UTXO")

// Keychain is a collection of keys that can be used to spend outputs
type Keychain struct {
	// This can be used to iterate over. However, it should not be modified
	// externally.
	Addrs set.Set[ids.ShortID]
	keys  map[ids.ShortID]*ecdsa.PrivateKey
}

// NewKeychain returns a new keychain containing [keys]
func NewKeychain(keys ...*ecdsa.PrivateKey) *Keychain {
	kc := &Keychain{
		keys: make(map[ids.ShortID]*ecdsa.PrivateKey),
	}
	for _, key := range keys {
		kc.Add(key)
	}
	return kc
}

// Add a new key to the key chain
func (kc *Keychain) Add(key *ecdsa.PrivateKey) {
	addr := ids.ShortID(crypto.PubkeyToAddress(key.PublicKey))
	if _, ok := kc.keys[addr]; !ok {
		kc.keys[addr] = key
		kc.Addrs.Add(addr)
	}
}

// Get a key from the keychain. If the key is unknown, the second return value
// is false.
func (kc *Keychain) Get(id ids.ShortID) (*ecdsa.PrivateKey, bool) {
	key, ok := kc.keys[id]
	return key, ok
}

// Match attempts to match a list of addresses up to the provided threshold.
// Addresses in [skip] are treated as already satisfied and are not signed for.
func (kc *Keychain) Match(owners *OutputOwners, time uint64, skip set.Set[ids.ShortID]) ([]*ecdsa.PrivateKey, bool) {
	if time < owners.Locktime {
		return nil, false
	}
	satisfied := uint32(0)
	keys := make([]*ecdsa.PrivateKey, 0, owners.Threshold)
	for _, addr := range owners.Addrs {
		if satisfied >= owners.Threshold {
			break
		}
		if skip.Contains(addr) {
			satisfied++
			continue
		}
		if key, exists := kc.keys[addr]; exists {
			keys = append(keys, key)
			satisfied++
		}
	}
	return keys, satisfied >= owners.Threshold
}

// Spend signs [hash] with enough keys to satisfy [owners] at [time].
func (kc *Keychain) Spend(owners *OutputOwners, time uint64, hash []byte, skip set.Set[ids.ShortID]) (*Credential, error) {
	keys, ok := kc.Match(owners, time, skip)
	if !ok {
		return nil, errCantSpend
	}
	return Sign(hash, keys...)
}

// Sign produces a credential carrying one signature over [hash] per key.
func Sign(hash []byte, keys ...*ecdsa.PrivateKey) (*Credential, error) {
	cr := &Credential{
		Sigs: make([][SignatureLen]byte, len(keys)),
	}
	for i, key := range keys {
		sig, err := crypto.Sign(hash, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		copy(cr.Sigs[i][:], sig)
	}
	return cr, nil
}
