// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"

	"github.com/ava-labs/sharedmemory/vmerrs"
)

// Gas costs for stateful precompiles
const (
	WriteGasCostPerSlot = 20_000
	ReadGasCostPerSlot  = 5_000

	// Per LOG operation.
	LogGas uint64 = params.LogGas
	// Multiplied by the * of the LOG*, per LOG transaction. e.g. LOG0 incurs 0 * c_txLogTopicGas, LOG4 incurs 4 * c_txLogTopicGas.
	LogTopicGas uint64 = params.LogTopicGas
	// Per byte in a LOG* operation's data.
	LogDataGas uint64 = params.LogDataGas
)

var functionSignatureRegex = regexp.MustCompile(`\w+\((\w*|(\w+,)+\w+)\)`)

// CalculateFunctionSelector returns the 4 byte function selector that results from [functionSignature]
// Ex. the function setBalance(addr address, balance uint256) should be passed in as the string:
// "setBalance(address,uint256)"
func CalculateFunctionSelector(functionSignature string) []byte {
	if !functionSignatureRegex.MatchString(functionSignature) {
		panic(fmt.Errorf("invalid function signature: %q", functionSignature))
	}
	hash := crypto.Keccak256([]byte(functionSignature))
	return hash[:4]
}

// DeductGas checks if [suppliedGas] is sufficient against [requiredGas] and deducts [requiredGas] from [suppliedGas].
func DeductGas(suppliedGas uint64, requiredGas uint64) (uint64, error) {
	if suppliedGas < requiredGas {
		return 0, vmerrs.ErrOutOfGas
	}
	return suppliedGas - requiredGas, nil
}

// ParseABI parses the given ABI string and returns the parsed ABI.
// If the ABI is invalid, it panics.
func ParseABI(rawABI string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	if err != nil {
		panic(err)
	}

	return parsed
}

// UnpackInput unpacks the arguments of [method] from [input] into [v].
// [input] must not include the function selector.
func UnpackInput(a abi.ABI, method string, input []byte, v interface{}) error {
	m, ok := a.Methods[method]
	if !ok {
		return fmt.Errorf("method '%s' not found", method)
	}
	values, err := m.Inputs.Unpack(input)
	if err != nil {
		return err
	}
	return m.Inputs.Copy(v, values)
}

// PackOutput packs [args] as the return values of [method].
func PackOutput(a abi.ABI, method string, args ...interface{}) ([]byte, error) {
	m, ok := a.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method '%s' not found", method)
	}
	return m.Outputs.Pack(args...)
}

// PackEvent packs [args] as the topics and data of the event [name]. Indexed
// arguments become topics after the event ID, the rest are ABI encoded into
// the data.
func PackEvent(a abi.ABI, name string, args ...interface{}) ([]common.Hash, []byte, error) {
	event, ok := a.Events[name]
	if !ok {
		return nil, nil, fmt.Errorf("event '%s' not found", name)
	}
	if len(args) != len(event.Inputs) {
		return nil, nil, fmt.Errorf("event '%s' unexpected number of inputs %d", name, len(args))
	}

	var (
		nonIndexedArgs []interface{}
		indexedQueries [][]interface{}
	)
	for i, input := range event.Inputs {
		if input.Indexed {
			indexedQueries = append(indexedQueries, []interface{}{args[i]})
		} else {
			nonIndexedArgs = append(nonIndexedArgs, args[i])
		}
	}

	indexedTopics, err := abi.MakeTopics(indexedQueries...)
	if err != nil {
		return nil, nil, err
	}
	topics := make([]common.Hash, 0, len(indexedTopics)+1)
	topics = append(topics, event.ID)
	for _, topic := range indexedTopics {
		topics = append(topics, topic[0])
	}

	data, err := event.Inputs.NonIndexed().Pack(nonIndexedArgs...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// UnpackEventData unpacks the non-indexed arguments of event [name] from
// [data] into [v].
func UnpackEventData(a abi.ABI, name string, data []byte, v interface{}) error {
	return a.UnpackIntoInterface(v, name, data)
}
