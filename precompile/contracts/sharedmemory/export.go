// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/precompile/contract"
	"github.com/ava-labs/sharedmemory/utils"
	"github.com/ava-labs/sharedmemory/utils/hashing"
	"github.com/ava-labs/sharedmemory/vmerrs"
	"github.com/ava-labs/sharedmemory/vms/components/avax"
	"github.com/ava-labs/sharedmemory/vms/components/verify"
	"github.com/ava-labs/sharedmemory/vms/secp256k1fx"
)

// outputIndexKey is the transient storage slot of the precompile holding the
// number of outputs exported by the current transaction.
var outputIndexKey = common.Hash{'o', 'u', 't', 'p', 'u', 't', 'I', 'n', 'd', 'e', 'x'}

var errTooManyOutputs = errors.New("too many outputs exported in one transaction")

type ExportAVAXInput struct {
	Amount             uint64
	DestinationChainID [32]byte
	To                 common.Address
}

type ExportUTXOInput struct {
	Amount             uint64
	DestinationChainID [32]byte
	AssetID            [32]byte
	Locktime           uint64
	Threshold          uint64
	Addrs              []common.Address
}

// PackExportAVAX packs [inputStruct] of type ExportAVAXInput into the appropriate arguments for exportAVAX.
func PackExportAVAX(inputStruct ExportAVAXInput) ([]byte, error) {
	return SharedMemoryABI.Pack("exportAVAX", inputStruct.Amount, common.Hash(inputStruct.DestinationChainID), inputStruct.To)
}

// UnpackExportAVAXInput attempts to unpack [input] as ExportAVAXInput
// assumes that [input] does not include selector (omits first 4 func signature bytes)
func UnpackExportAVAXInput(input []byte) (ExportAVAXInput, error) {
	inputStruct := ExportAVAXInput{}
	err := contract.UnpackInput(SharedMemoryABI, "exportAVAX", input, &inputStruct)
	return inputStruct, err
}

// PackExportUTXO packs [inputStruct] of type ExportUTXOInput into the appropriate arguments for exportUTXO.
func PackExportUTXO(inputStruct ExportUTXOInput) ([]byte, error) {
	return SharedMemoryABI.Pack(
		"exportUTXO",
		inputStruct.Amount,
		common.Hash(inputStruct.DestinationChainID),
		common.Hash(inputStruct.AssetID),
		inputStruct.Locktime,
		inputStruct.Threshold,
		inputStruct.Addrs,
	)
}

// UnpackExportUTXOInput attempts to unpack [input] as ExportUTXOInput
// assumes that [input] does not include selector (omits first 4 func signature bytes)
func UnpackExportUTXOInput(input []byte) (ExportUTXOInput, error) {
	inputStruct := ExportUTXOInput{}
	err := contract.UnpackInput(SharedMemoryABI, "exportUTXO", input, &inputStruct)
	return inputStruct, err
}

// PackExportOutput packs the ID of an exported UTXO as the return value of
// exportAVAX and exportUTXO.
func PackExportOutput(method string, utxoID ids.ID) ([]byte, error) {
	return contract.PackOutput(SharedMemoryABI, method, common.Hash(utxoID))
}

// ExportTxID returns the ID of the transaction that produced the outputs
// [caller] exported from [sourceChainID] during the EVM transaction [txHash].
func ExportTxID(sourceChainID ids.ID, txHash common.Hash, caller common.Address) ids.ID {
	return hashing.ComputeHash256Ranges(sourceChainID[:], txHash[:], caller[:])
}

// exportAVAX burns [Amount] wei from the caller and exports it as an AVAX UTXO
// owned by [To] on [DestinationChainID].
func exportAVAX(accessibleState contract.AccessibleState, caller common.Address, addr common.Address, input []byte, suppliedGas uint64, readOnly bool) (ret []byte, remainingGas uint64, err error) {
	if remainingGas, err = contract.DeductGas(suppliedGas, ExportGasCost+ExportGasCostPerOwner); err != nil {
		return nil, 0, err
	}
	if readOnly {
		return nil, remainingGas, vmerrs.ErrWriteProtection
	}

	inputStruct, err := UnpackExportAVAXInput(input)
	if err != nil {
		return nil, remainingGas, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	if inputStruct.Amount == 0 || inputStruct.Amount%X2CRate != 0 {
		return nil, remainingGas, fmt.Errorf("%w: %d wei is not a positive multiple of %d", ErrInsufficientPrecision, inputStruct.Amount, X2CRate)
	}

	snowCtx := accessibleState.GetSnowContext()
	utxo, err := export(accessibleState, caller, exportRequest{
		destinationChainID: inputStruct.DestinationChainID,
		assetID:            snowCtx.AVAXAssetID,
		amount:             inputStruct.Amount / X2CRate,
		owners: secp256k1fx.OutputOwners{
			Threshold: 1,
			Addrs:     []ids.ShortID{ids.ShortID(inputStruct.To)},
		},
	})
	if err != nil {
		return nil, remainingGas, err
	}

	topics, data, err := PackExportAVAXEvent(common.Hash(inputStruct.DestinationChainID), ExportAVAXEventData{
		Amount:      utxo.Out.Amt,
		OutputIndex: uint64(utxo.OutputIndex),
		Threshold:   uint64(utxo.Out.Threshold),
		Addrs:       ownerAddresses(&utxo.Out.OutputOwners),
	})
	if err != nil {
		return nil, remainingGas, err
	}
	return finishExport(accessibleState, addr, "exportAVAX", utxo, topics, data, remainingGas)
}

// exportUTXO burns [Amount] of the multi-coin asset [AssetID] from the caller
// and exports it to [DestinationChainID] with the given owners.
func exportUTXO(accessibleState contract.AccessibleState, caller common.Address, addr common.Address, input []byte, suppliedGas uint64, readOnly bool) (ret []byte, remainingGas uint64, err error) {
	if remainingGas, err = contract.DeductGas(suppliedGas, ExportGasCost); err != nil {
		return nil, 0, err
	}
	if readOnly {
		return nil, remainingGas, vmerrs.ErrWriteProtection
	}

	inputStruct, err := UnpackExportUTXOInput(input)
	if err != nil {
		return nil, remainingGas, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	if remainingGas, err = contract.DeductGas(remainingGas, uint64(len(inputStruct.Addrs))*ExportGasCostPerOwner); err != nil {
		return nil, 0, err
	}
	if inputStruct.Amount == 0 {
		return nil, remainingGas, fmt.Errorf("%w: amount must be positive", ErrInsufficientPrecision)
	}

	snowCtx := accessibleState.GetSnowContext()
	assetID := ids.ID(inputStruct.AssetID)
	if assetID == snowCtx.AVAXAssetID {
		return nil, remainingGas, fmt.Errorf("%w: %s must be exported with exportAVAX", ErrInvalidAsset, assetID)
	}
	if inputStruct.Threshold > math.MaxUint32 {
		return nil, remainingGas, fmt.Errorf("%w: threshold %d overflows uint32", ErrInvalidOwners, inputStruct.Threshold)
	}
	addrs := make([]ids.ShortID, len(inputStruct.Addrs))
	for i, owner := range inputStruct.Addrs {
		addrs[i] = ids.ShortID(owner)
	}
	if !utils.IsSortedAndUnique(addrs) {
		return nil, remainingGas, fmt.Errorf("%w: addresses must be sorted and unique", ErrInvalidOwners)
	}

	utxo, err := export(accessibleState, caller, exportRequest{
		destinationChainID: inputStruct.DestinationChainID,
		assetID:            assetID,
		amount:             inputStruct.Amount,
		owners: secp256k1fx.OutputOwners{
			Locktime:  inputStruct.Locktime,
			Threshold: uint32(inputStruct.Threshold),
			Addrs:     addrs,
		},
	})
	if err != nil {
		return nil, remainingGas, err
	}

	topics, data, err := PackExportUTXOEvent(common.Hash(inputStruct.DestinationChainID), ExportUTXOEventData{
		Amount:      utxo.Out.Amt,
		AssetID:     common.Hash(assetID),
		OutputIndex: uint64(utxo.OutputIndex),
		Locktime:    utxo.Out.Locktime,
		Threshold:   uint64(utxo.Out.Threshold),
		Addrs:       ownerAddresses(&utxo.Out.OutputOwners),
	})
	if err != nil {
		return nil, remainingGas, err
	}
	return finishExport(accessibleState, addr, "exportUTXO", utxo, topics, data, remainingGas)
}

// exportRequest is a single output to export. [amount] is denominated in the
// UTXO's units.
type exportRequest struct {
	destinationChainID ids.ID
	assetID            ids.ID
	amount             uint64
	owners             secp256k1fx.OutputOwners
}

// export debits the caller and places the resulting UTXO in the pending
// shared memory operations of the destination chain.
func export(accessibleState contract.AccessibleState, caller common.Address, req exportRequest) (*avax.UTXO, error) {
	var (
		snowCtx = accessibleState.GetSnowContext()
		stateDB = accessibleState.GetStateDB()
	)
	if err := verify.SameSubnet(context.TODO(), snowCtx, req.destinationChainID); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownChain, req.destinationChainID, err)
	}

	outputIndex, err := nextOutputIndex(stateDB)
	if err != nil {
		return nil, err
	}
	utxo := &avax.UTXO{
		UTXOID: avax.UTXOID{
			TxID:        ExportTxID(snowCtx.ChainID, stateDB.GetTxHash(), caller),
			OutputIndex: outputIndex,
		},
		Asset: avax.Asset{ID: req.assetID},
		Out: &secp256k1fx.TransferOutput{
			Amt:          req.amount,
			OutputOwners: req.owners,
		},
	}
	if err := utxo.Verify(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOwners, err)
	}

	if req.assetID == snowCtx.AVAXAssetID {
		// [amount] was divided out of a uint64 wei amount so this can't
		// overflow.
		weiAmount := new(uint256.Int).Mul(uint256.NewInt(req.amount), uint256.NewInt(X2CRate))
		if balance := stateDB.GetBalance(caller); balance.Lt(weiAmount) {
			return nil, fmt.Errorf("%w: balance %s wei < %s wei", ErrInsufficientFunds, balance.ToBig(), weiAmount.ToBig())
		}
		stateDB.SubBalance(caller, weiAmount)
	} else {
		amount := new(big.Int).SetUint64(req.amount)
		if balance := stateDB.GetBalanceMultiCoin(caller, common.Hash(req.assetID)); balance.Cmp(amount) < 0 {
			return nil, fmt.Errorf("%w: balance %s < %s of %s", ErrInsufficientFunds, balance, amount, req.assetID)
		}
		stateDB.SubBalanceMultiCoin(caller, common.Hash(req.assetID), amount)
	}

	if err := accessibleState.GetUTXOStore().AddUTXO(req.destinationChainID, utxo); err != nil {
		return nil, err
	}
	return utxo, nil
}

func finishExport(
	accessibleState contract.AccessibleState,
	addr common.Address,
	method string,
	utxo *avax.UTXO,
	topics []common.Hash,
	data []byte,
	remainingGas uint64,
) ([]byte, uint64, error) {
	utxoID, err := utxo.ComputeID()
	if err != nil {
		return nil, remainingGas, err
	}
	accessibleState.GetStateDB().AddLog(
		addr,
		topics,
		data,
		accessibleState.GetBlockContext().Number().Uint64(),
	)

	snowCtx := accessibleState.GetSnowContext()
	snowCtx.Log.Debug("exported utxo",
		zap.Stringer("utxoID", utxoID),
		zap.Stringer("destinationChainID", ids.ID(topics[1])),
		zap.Stringer("assetID", utxo.Asset.ID),
		zap.Uint64("amount", utxo.Out.Amt),
		zap.Uint32("outputIndex", utxo.OutputIndex),
	)

	packedOutput, err := PackExportOutput(method, utxoID)
	if err != nil {
		return nil, remainingGas, err
	}
	return packedOutput, remainingGas, nil
}

// nextOutputIndex returns the output index of the next UTXO exported by the
// current transaction.
func nextOutputIndex(stateDB contract.StateDB) (uint32, error) {
	index := new(big.Int).SetBytes(stateDB.GetTransientState(ContractAddress, outputIndexKey).Bytes())
	if !index.IsUint64() || index.Uint64() >= math.MaxUint32 {
		return 0, errTooManyOutputs
	}
	next := index.Uint64()
	stateDB.SetTransientState(ContractAddress, outputIndexKey, common.BigToHash(new(big.Int).SetUint64(next+1)))
	return uint32(next), nil
}

func ownerAddresses(owners *secp256k1fx.OutputOwners) []common.Address {
	addrs := make([]common.Address, len(owners.Addrs))
	for i, addr := range owners.Addrs {
		addrs[i] = common.Address(addr)
	}
	return addrs
}
