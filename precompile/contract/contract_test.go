// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contract

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/sharedmemory/vmerrs"
)

const testABI = `[
	{"inputs":[{"internalType":"uint64","name":"amount","type":"uint64"},{"internalType":"bytes32","name":"chainID","type":"bytes32"}],"name":"send","outputs":[{"internalType":"bytes32","name":"id","type":"bytes32"}],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"uint64","name":"amount","type":"uint64"},{"indexed":true,"internalType":"bytes32","name":"chainID","type":"bytes32"},{"indexed":false,"internalType":"address[]","name":"addrs","type":"address[]"}],"name":"Sent","type":"event"}
]`

func TestCalculateFunctionSelector(t *testing.T) {
	require := require.New(t)

	// transfer(address,uint256) is the ERC20 transfer selector.
	require.Equal([]byte{0xa9, 0x05, 0x9c, 0xbb}, CalculateFunctionSelector("transfer(address,uint256)"))
	require.Panics(func() {
		CalculateFunctionSelector("transfer(address, uint256)")
	})
}

func TestDeductGas(t *testing.T) {
	tests := []struct {
		name        string
		supplied    uint64
		required    uint64
		expectedGas uint64
		expectedErr error
	}{
		{
			name:        "exact",
			supplied:    10,
			required:    10,
			expectedGas: 0,
		},
		{
			name:        "remaining",
			supplied:    15,
			required:    10,
			expectedGas: 5,
		},
		{
			name:        "out of gas",
			supplied:    9,
			required:    10,
			expectedErr: vmerrs.ErrOutOfGas,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			remaining, err := DeductGas(test.supplied, test.required)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expectedGas, remaining)
		})
	}
}

func TestPackInputAndOutput(t *testing.T) {
	require := require.New(t)

	parsed := ParseABI(testABI)
	chainID := common.Hash{1, 2, 3}
	packed, err := parsed.Pack("send", uint64(7), chainID)
	require.NoError(err)

	var input struct {
		Amount  uint64
		ChainID [32]byte
	}
	require.NoError(UnpackInput(parsed, "send", packed[SelectorLen:], &input))
	require.Equal(uint64(7), input.Amount)
	require.Equal([32]byte(chainID), input.ChainID)

	require.Error(UnpackInput(parsed, "receive", packed[SelectorLen:], &input))
	require.Error(UnpackInput(parsed, "send", packed[SelectorLen:10], &input))

	out, err := PackOutput(parsed, "send", chainID)
	require.NoError(err)
	require.Equal(chainID[:], out)
}

func TestPackEvent(t *testing.T) {
	require := require.New(t)

	parsed := ParseABI(testABI)
	chainID := common.Hash{4, 5, 6}
	addrs := []common.Address{{1}, {2}}
	topics, data, err := PackEvent(parsed, "Sent", uint64(9), chainID, addrs)
	require.NoError(err)
	require.Equal([]common.Hash{parsed.Events["Sent"].ID, chainID}, topics)

	var event struct {
		Amount uint64
		Addrs  []common.Address
	}
	require.NoError(UnpackEventData(parsed, "Sent", data, &event))
	require.Equal(uint64(9), event.Amount)
	require.Equal(addrs, event.Addrs)

	_, _, err = PackEvent(parsed, "Sent", uint64(9), chainID)
	require.Error(err)
	_, _, err = PackEvent(parsed, "Received", uint64(9))
	require.Error(err)
}

func TestStatefulPrecompileDispatch(t *testing.T) {
	require := require.New(t)

	selector := CalculateFunctionSelector("ping()")
	var called bool
	ping := func(_ AccessibleState, _ common.Address, _ common.Address, input []byte, suppliedGas uint64, _ bool) ([]byte, uint64, error) {
		called = true
		require.Equal([]byte{0x01}, input)
		return []byte("pong"), suppliedGas - 1, nil
	}

	_, err := NewStatefulPrecompileContract(nil, []*StatefulPrecompileFunction{
		NewStatefulPrecompileFunction(selector, ping),
		NewStatefulPrecompileFunction(selector, ping),
	})
	require.Error(err)

	precompile, err := NewStatefulPrecompileContract(nil, []*StatefulPrecompileFunction{
		NewStatefulPrecompileFunction(selector, ping),
	})
	require.NoError(err)

	ret, remaining, err := precompile.Run(nil, common.Address{}, common.Address{}, append(selector, 0x01), 10, false)
	require.NoError(err)
	require.True(called)
	require.Equal([]byte("pong"), ret)
	require.Equal(uint64(9), remaining)

	_, remaining, err = precompile.Run(nil, common.Address{}, common.Address{}, []byte{0x01}, 10, false)
	require.ErrorContains(err, "missing function selector")
	require.Equal(uint64(10), remaining)

	_, _, err = precompile.Run(nil, common.Address{}, common.Address{}, []byte{0, 0, 0, 0}, 10, false)
	require.ErrorContains(err, "invalid function selector")
}
