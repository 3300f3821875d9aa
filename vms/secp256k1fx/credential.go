// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256k1fx

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/utils/set"
)

const (
	// SignatureLen is the length of a recoverable signature: [R || S || V]
	// with V in {0, 1}.
	SignatureLen = crypto.SignatureLength

	// MaxSignatures bounds the signatures carried by one credential.
	MaxSignatures = 256
)

var (
	ErrNilCredential      = errors.New("nil credential")
	ErrInvalidCredential  = errors.New("credential length is not a multiple of the signature length")
	ErrTooManySignatures  = errors.New("too many signatures")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInvalidMessageHash = errors.New("invalid message hash length")
)

// Credential is a list of signatures over a single message.
type Credential struct {
	Sigs [][SignatureLen]byte `json:"signatures"`
}

// ParseCredential splits [b] into consecutive signatures. An empty slice is a
// valid credential with no signatures.
func ParseCredential(b []byte) (*Credential, error) {
	if len(b)%SignatureLen != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCredential, len(b))
	}
	numSigs := len(b) / SignatureLen
	if numSigs > MaxSignatures {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySignatures, numSigs, MaxSignatures)
	}
	cr := &Credential{
		Sigs: make([][SignatureLen]byte, numSigs),
	}
	for i := range cr.Sigs {
		copy(cr.Sigs[i][:], b[i*SignatureLen:])
	}
	return cr, nil
}

// Bytes returns the concatenation of the signatures.
func (cr *Credential) Bytes() []byte {
	b := make([]byte, 0, len(cr.Sigs)*SignatureLen)
	for _, sig := range cr.Sigs {
		b = append(b, sig[:]...)
	}
	return b
}

func (cr *Credential) Verify() error {
	if cr == nil {
		return ErrNilCredential
	}
	for i, sig := range cr.Sigs {
		if err := verifySignatureValues(sig); err != nil {
			return fmt.Errorf("signature %d: %w", i, err)
		}
	}
	return nil
}

// Signers returns the addresses of every key that signed [hash].
func (cr *Credential) Signers(hash []byte) (set.Set[ids.ShortID], error) {
	if len(hash) != crypto.DigestLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageHash, len(hash))
	}
	signers := set.NewSet[ids.ShortID](len(cr.Sigs))
	for i, sig := range cr.Sigs {
		if err := verifySignatureValues(sig); err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		pubKey, err := crypto.SigToPub(hash, sig[:])
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %v", ErrInvalidSignature, i, err)
		}
		signers.Add(ids.ShortID(crypto.PubkeyToAddress(*pubKey)))
	}
	return signers, nil
}

func verifySignatureValues(sig [SignatureLen]byte) error {
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[64], r, s, true) {
		return ErrInvalidSignature
	}
	return nil
}
