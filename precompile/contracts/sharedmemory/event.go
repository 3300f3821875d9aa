// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sharedmemory

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ava-labs/sharedmemory/precompile/contract"
)

// ExportAVAXEventData is the non-indexed data of an ExportAVAX log.
type ExportAVAXEventData struct {
	Amount      uint64
	OutputIndex uint64
	Threshold   uint64
	Addrs       []common.Address
}

// ExportUTXOEventData is the non-indexed data of an ExportUTXO log.
type ExportUTXOEventData struct {
	Amount      uint64
	AssetID     common.Hash
	OutputIndex uint64
	Locktime    uint64
	Threshold   uint64
	Addrs       []common.Address
}

// ImportAVAXEventData is the non-indexed data of an ImportAVAX log.
type ImportAVAXEventData struct {
	Amount uint64
	UtxoID common.Hash
}

// ImportUTXOEventData is the non-indexed data of an ImportUTXO log.
type ImportUTXOEventData struct {
	Amount  uint64
	UtxoID  common.Hash
	AssetID common.Hash
}

// PackExportAVAXEvent packs the topics and data of an ExportAVAX log. The
// destination chain is the only indexed field.
func PackExportAVAXEvent(destinationChainID common.Hash, data ExportAVAXEventData) ([]common.Hash, []byte, error) {
	return contract.PackEvent(
		SharedMemoryABI,
		"ExportAVAX",
		data.Amount,
		destinationChainID,
		data.OutputIndex,
		data.Threshold,
		data.Addrs,
	)
}

func UnpackExportAVAXEventData(dataBytes []byte) (ExportAVAXEventData, error) {
	var data ExportAVAXEventData
	err := contract.UnpackEventData(SharedMemoryABI, "ExportAVAX", dataBytes, &data)
	return data, err
}

// PackExportUTXOEvent packs the topics and data of an ExportUTXO log.
func PackExportUTXOEvent(destinationChainID common.Hash, data ExportUTXOEventData) ([]common.Hash, []byte, error) {
	return contract.PackEvent(
		SharedMemoryABI,
		"ExportUTXO",
		data.Amount,
		destinationChainID,
		data.AssetID,
		data.OutputIndex,
		data.Locktime,
		data.Threshold,
		data.Addrs,
	)
}

func UnpackExportUTXOEventData(dataBytes []byte) (ExportUTXOEventData, error) {
	var data ExportUTXOEventData
	err := contract.UnpackEventData(SharedMemoryABI, "ExportUTXO", dataBytes, &data)
	return data, err
}

// PackImportAVAXEvent packs the topics and data of an ImportAVAX log. The
// source chain is the only indexed field.
func PackImportAVAXEvent(sourceChainID common.Hash, data ImportAVAXEventData) ([]common.Hash, []byte, error) {
	return contract.PackEvent(
		SharedMemoryABI,
		"ImportAVAX",
		data.Amount,
		sourceChainID,
		data.UtxoID,
	)
}

func UnpackImportAVAXEventData(dataBytes []byte) (ImportAVAXEventData, error) {
	var data ImportAVAXEventData
	err := contract.UnpackEventData(SharedMemoryABI, "ImportAVAX", dataBytes, &data)
	return data, err
}

// PackImportUTXOEvent packs the topics and data of an ImportUTXO log.
func PackImportUTXOEvent(sourceChainID common.Hash, data ImportUTXOEventData) ([]common.Hash, []byte, error) {
	return contract.PackEvent(
		SharedMemoryABI,
		"ImportUTXO",
		data.Amount,
		sourceChainID,
		data.UtxoID,
		data.AssetID,
	)
}

func UnpackImportUTXOEventData(dataBytes []byte) (ImportUTXOEventData, error) {
	var data ImportUTXOEventData
	err := contract.UnpackEventData(SharedMemoryABI, "ImportUTXO", dataBytes, &data)
	return data, err
}
