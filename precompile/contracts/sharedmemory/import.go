// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/sharedmemory/database"
	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/components/avax"

	safemath "github.com/ava-labs/sharedmemory/utils/math"
)

type ImportInput struct {
	SourceChainID  [32]byte
	UtxoID         [32]byte
	ExpectedAmount uint64
}

// PackImportAVAX packs [inputStruct] of type ImportInput into the appropriate arguments for importAVAX.
func PackImportAVAX(inputStruct ImportInput) ([]byte, error) {
	return packImport("importAVAX", inputStruct)
}

// PackImportUTXO packs [inputStruct] of type ImportInput into the appropriate arguments for importUTXO.
func PackImportUTXO(inputStruct ImportInput) ([]byte, error) {
	return packImport("importUTXO", inputStruct)
}

func packImport(method string, inputStruct ImportInput) ([]byte, error) {
	return SharedMemoryABI.Pack(
		method,
		common.Hash(inputStruct.SourceChainID),
		common.Hash(inputStruct.UtxoID),
		inputStruct.ExpectedAmount,
	)
}

// UnpackImportInput attempts to unpack [input] as the arguments of [method]
// assumes that [input] does not include selector (omits first 4 func signature bytes)
func UnpackImportInput(method string, input []byte) (ImportInput, error) {
	inputStruct := ImportInput{}
	err := contract.UnpackInput(SharedMemoryABI, method, input, &inputStruct)
	return inputStruct, err
}

// PackImportOutput packs the imported amount as the return value of [method].
func PackImportOutput(method string, amount uint64) ([]byte, error) {
	return contract.PackOutput(SharedMemoryABI, method, amount)
}

// ImportGas returns the gas charged for an import when [numChunks] predicate
// chunks are declared for the precompile.
func ImportGas(numChunks uint64) (uint64, error) {
	chunksGas, err := safemath.Mul(numChunks, ImportGasCostPerPredicateChunk)
	if err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}
	totalGas, err := safemath.Add(ImportGasCost, chunksGas)
	if err != nil {
		return 0, vmerrs.ErrGasUintOverflow
	}
	return totalGas, nil
}

// importAVAX consumes an AVAX UTXO exported to this chain and credits the
// caller with its amount in wei.
func importAVAX(accessibleState contract.AccessibleState, caller common.Address, addr common.Address, input []byte, suppliedGas uint64, readOnly bool) (ret []byte, remainingGas uint64, err error) {
	remainingGas, inputStruct, utxo, err := consume(accessibleState, "importAVAX", addr, input, suppliedGas, readOnly, true)
	if err != nil {
		return nil, remainingGas, err
	}

	weiAmount, err := safemath.Mul(utxo.Out.Amt, X2CRate)
	if err != nil {
		return nil, remainingGas, fmt.Errorf("%w: %d nAVAX overflows wei", ErrAmountMismatch, utxo.Out.Amt)
	}
	if inputStruct.ExpectedAmount != 0 && inputStruct.ExpectedAmount != weiAmount {
		return nil, remainingGas, fmt.Errorf("%w: expected %d wei, utxo holds %d wei", ErrAmountMismatch, inputStruct.ExpectedAmount, weiAmount)
	}
	if err := spend(accessibleState, inputStruct, caller, addr, utxo); err != nil {
		return nil, remainingGas, err
	}

	stateDB := accessibleState.GetStateDB()
	stateDB.AddBalance(caller, uint256.NewInt(weiAmount))

	topics, data, err := PackImportAVAXEvent(common.Hash(inputStruct.SourceChainID), ImportAVAXEventData{
		Amount: utxo.Out.Amt,
		UtxoID: common.Hash(inputStruct.UtxoID),
	})
	if err != nil {
		return nil, remainingGas, err
	}
	stateDB.AddLog(addr, topics, data, accessibleState.GetBlockContext().Number().Uint64())

	packedOutput, err := PackImportOutput("importAVAX", weiAmount)
	if err != nil {
		return nil, remainingGas, err
	}
	return packedOutput, remainingGas, nil
}

// importUTXO consumes a multi-coin UTXO exported to this chain and credits
// the caller's balance of its asset.
func importUTXO(accessibleState contract.AccessibleState, caller common.Address, addr common.Address, input []byte, suppliedGas uint64, readOnly bool) (ret []byte, remainingGas uint64, err error) {
	remainingGas, inputStruct, utxo, err := consume(accessibleState, "importUTXO", addr, input, suppliedGas, readOnly, false)
	if err != nil {
		return nil, remainingGas, err
	}

	if inputStruct.ExpectedAmount != 0 && inputStruct.ExpectedAmount != utxo.Out.Amt {
		return nil, remainingGas, fmt.Errorf("%w: expected %d, utxo holds %d", ErrAmountMismatch, inputStruct.ExpectedAmount, utxo.Out.Amt)
	}
	if err := spend(accessibleState, inputStruct, caller, addr, utxo); err != nil {
		return nil, remainingGas, err
	}

	stateDB := accessibleState.GetStateDB()
	stateDB.AddBalanceMultiCoin(caller, common.Hash(utxo.Asset.ID), new(big.Int).SetUint64(utxo.Out.Amt))

	topics, data, err := PackImportUTXOEvent(common.Hash(inputStruct.SourceChainID), ImportUTXOEventData{
		Amount:  utxo.Out.Amt,
		UtxoID:  common.Hash(inputStruct.UtxoID),
		AssetID: common.Hash(utxo.Asset.ID),
	})
	if err != nil {
		return nil, remainingGas, err
	}
	stateDB.AddLog(addr, topics, data, accessibleState.GetBlockContext().Number().Uint64())

	packedOutput, err := PackImportOutput("importUTXO", utxo.Out.Amt)
	if err != nil {
		return nil, remainingGas, err
	}
	return packedOutput, remainingGas, nil
}

// consume charges gas, unpacks the import arguments and loads the referenced
// UTXO after checking that it is denominated in the expected kind of asset.
func consume(
	accessibleState contract.AccessibleState,
	method string,
	addr common.Address,
	input []byte,
	suppliedGas uint64,
	readOnly bool,
	avaxAsset bool,
) (uint64, ImportInput, *avax.UTXO, error) {
	var (
		stateDB    = accessibleState.GetStateDB()
		predicates = stateDB.GetPredicates(addr)
		numChunks  uint64
	)
	for _, pred := range predicates {
		numChunks += pred.NumChunks()
	}
	requiredGas, err := ImportGas(numChunks)
	if err != nil {
		return 0, ImportInput{}, nil, err
	}
	remainingGas, err := contract.DeductGas(suppliedGas, requiredGas)
	if err != nil {
		return 0, ImportInput{}, nil, err
	}
	if readOnly {
		return remainingGas, ImportInput{}, nil, vmerrs.ErrWriteProtection
	}

	inputStruct, err := UnpackImportInput(method, input)
	if err != nil {
		return remainingGas, ImportInput{}, nil, fmt.Errorf("%w: %w", errInvalidInput, err)
	}

	sourceChainID := ids.ID(inputStruct.SourceChainID)
	utxoID := ids.ID(inputStruct.UtxoID)
	utxo, err := accessibleState.GetUTXOStore().GetUTXO(sourceChainID, utxoID)
	if errors.Is(err, database.ErrNotFound) {
		return remainingGas, inputStruct, nil, fmt.Errorf("%w: %s from %s", ErrUTXONotFound, utxoID, sourceChainID)
	}
	if err != nil {
		return remainingGas, inputStruct, nil, err
	}

	isAVAX := utxo.Asset.ID == accessibleState.GetSnowContext().AVAXAssetID
	if isAVAX != avaxAsset {
		return remainingGas, inputStruct, nil, fmt.Errorf("%w: %s can't be imported with %s", ErrInvalidAsset, utxo.Asset.ID, method)
	}
	return remainingGas, inputStruct, utxo, nil
}

// spend authorizes [caller] to consume [utxo] and removes it from shared
// memory.
func spend(accessibleState contract.AccessibleState, inputStruct ImportInput, caller common.Address, addr common.Address, utxo *avax.UTXO) error {
	var (
		sourceChainID = ids.ID(inputStruct.SourceChainID)
		utxoID        = ids.ID(inputStruct.UtxoID)
		stateDB       = accessibleState.GetStateDB()
	)
	err := VerifyPredicate(
		utxo,
		sourceChainID,
		caller,
		accessibleState.GetBlockContext().Timestamp(),
		stateDB.GetPredicates(addr),
	)
	if err != nil {
		return err
	}

	err = accessibleState.GetUTXOStore().DeleteUTXO(sourceChainID, utxoID)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s from %s", ErrUTXONotFound, utxoID, sourceChainID)
	}
	if err != nil {
		return err
	}

	accessibleState.GetSnowContext().Log.Debug("imported utxo",
		zap.Stringer("utxoID", utxoID),
		zap.Stringer("sourceChainID", sourceChainID),
		zap.Stringer("assetID", utxo.Asset.ID),
		zap.Uint64("amount", utxo.Out.Amt),
		zap.Stringer("importer", caller),
	)
	return nil
}
