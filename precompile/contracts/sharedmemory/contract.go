// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	_ "embed"

	"github.com/ava-labs/sharedmemory/precompile/contract"
)

const (
	// X2CRate is the conversion rate between the smallest denomination of
	// AVAX on an EVM chain (wei) and in a UTXO (nAVAX).
	X2CRate uint64 = 1_000_000_000

	GetBlockchainIDGasCost uint64 = 2 // Based on GasQuickStep used in existing EVM instructions
	GetAVAXAssetIDGasCost  uint64 = 2

	// Read the balance, write the balance, write the UTXO into shared memory
	// and bump the output index. The log carries the event ID and the chain ID
	// as topics.
	ExportGasCost uint64 = contract.ReadGasCostPerSlot + 3*contract.WriteGasCostPerSlot + contract.LogGas + 2*contract.LogTopicGas
	// ExportGasCostPerOwner covers one 32 byte address word in the log data
	// and in the stored UTXO.
	ExportGasCostPerOwner uint64 = common.HashLength * (contract.LogDataGas + params.TxDataNonZeroGasEIP2028)

	// Read the UTXO, delete it, write the balance and emit a log with up to
	// three data words.
	ImportGasCost uint64 = contract.ReadGasCostPerSlot + 2*contract.WriteGasCostPerSlot + contract.LogGas + 2*contract.LogTopicGas + 3*common.HashLength*contract.LogDataGas
	// ImportGasCostPerPredicateChunk is charged for reading every predicate
	// chunk declared for the precompile. Signature verification is paid for
	// ahead of execution through PredicateGas.
	ImportGasCostPerPredicateChunk uint64 = 200

	// PredicateGasBase, GasCostPerPredicateChunk and
	// GasCostPerSignatureVerification make up the intrinsic gas of a
	// predicate.
	PredicateGasBase                uint64 = 2_000
	GasCostPerPredicateChunk        uint64 = 200
	GasCostPerSignatureVerification uint64 = params.EcrecoverGas
)

var (
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientPrecision = errors.New("insufficient precision")
	ErrUnknownChain          = errors.New("unknown chain")
	ErrMalformedPredicate    = errors.New("malformed predicate")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUTXONotFound          = errors.New("utxo not found")
	ErrAmountMismatch        = errors.New("amount mismatch")
	ErrInvalidAsset          = errors.New("invalid asset")
	ErrInvalidOwners         = errors.New("invalid owners")

	errInvalidInput = errors.New("invalid input")
)

// Singleton StatefulPrecompiledContract and signatures.
var (
	// SharedMemoryRawABI contains the raw ABI of SharedMemory contract.
	//go:embed contract.abi
	SharedMemoryRawABI string

	SharedMemoryABI = contract.ParseABI(SharedMemoryRawABI)

	SharedMemoryPrecompile = createSharedMemoryPrecompile()
)

// PackGetBlockchainID packs the include selector (first 4 func signature bytes).
// This function is mostly used for tests.
func PackGetBlockchainID() ([]byte, error) {
	return SharedMemoryABI.Pack("getBlockchainID")
}

// PackGetBlockchainIDOutput attempts to pack given blockchainID of type common.Hash
// to conform the ABI outputs.
func PackGetBlockchainIDOutput(blockchainID common.Hash) ([]byte, error) {
	return contract.PackOutput(SharedMemoryABI, "getBlockchainID", blockchainID)
}

// getBlockchainID returns the snow Chain Context ChainID of this blockchain.
func getBlockchainID(accessibleState contract.AccessibleState, _ common.Address, _ common.Address, _ []byte, suppliedGas uint64, _ bool) (ret []byte, remainingGas uint64, err error) {
	if remainingGas, err = contract.DeductGas(suppliedGas, GetBlockchainIDGasCost); err != nil {
		return nil, 0, err
	}
	packedOutput, err := PackGetBlockchainIDOutput(common.Hash(accessibleState.GetSnowContext().ChainID))
	if err != nil {
		return nil, remainingGas, err
	}
	return packedOutput, remainingGas, nil
}

func PackGetAVAXAssetID() ([]byte, error) {
	return SharedMemoryABI.Pack("getAVAXAssetID")
}

func PackGetAVAXAssetIDOutput(assetID common.Hash) ([]byte, error) {
	return contract.PackOutput(SharedMemoryABI, "getAVAXAssetID", assetID)
}

// getAVAXAssetID returns the asset ID that AVAX UTXOs are denominated in.
func getAVAXAssetID(accessibleState contract.AccessibleState, _ common.Address, _ common.Address, _ []byte, suppliedGas uint64, _ bool) (ret []byte, remainingGas uint64, err error) {
	if remainingGas, err = contract.DeductGas(suppliedGas, GetAVAXAssetIDGasCost); err != nil {
		return nil, 0, err
	}
	packedOutput, err := PackGetAVAXAssetIDOutput(common.Hash(accessibleState.GetSnowContext().AVAXAssetID))
	if err != nil {
		return nil, remainingGas, err
	}
	return packedOutput, remainingGas, nil
}

// createSharedMemoryPrecompile returns a StatefulPrecompiledContract with getters and setters for the precompile.
func createSharedMemoryPrecompile() contract.StatefulPrecompiledContract {
	var functions []*contract.StatefulPrecompileFunction

	abiFunctionMap := map[string]contract.RunStatefulPrecompileFunc{
		"exportAVAX":      exportAVAX,
		"exportUTXO":      exportUTXO,
		"importAVAX":      importAVAX,
		"importUTXO":      importUTXO,
		"getBlockchainID": getBlockchainID,
		"getAVAXAssetID":  getAVAXAssetID,
	}

	for name, function := range abiFunctionMap {
		method, ok := SharedMemoryABI.Methods[name]
		if !ok {
			panic(fmt.Errorf("given method (%s) does not exist in the ABI", name))
		}
		functions = append(functions, contract.NewStatefulPrecompileFunction(method.ID, function))
	}
	// Construct the contract with no fallback function.
	statefulContract, err := contract.NewStatefulPrecompileContract(nil, functions)
	if err != nil {
		panic(err)
	}
	return statefulContract
}
