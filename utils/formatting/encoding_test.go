// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodingRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{},
		{0},
		{1, 2, 3, 4, 5},
		make([]byte, 32),
	}
	for _, encoding := range []Encoding{Hex, HexNC, CB58} {
		for _, input := range inputs {
			require := require.New(t)

			str, err := Encode(encoding, input)
			require.NoError(err)

			decoded, err := Decode(encoding, str)
			require.NoError(err)
			require.Len(decoded, len(input))
			if len(input) > 0 {
				require.Equal(input, decoded)
			}
		}
	}
}

func TestEncodeCB58(t *testing.T) {
	require := require.New(t)

	str, err := Encode(CB58, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 255})
	require.NoError(err)
	require.Equal("1NVSVezva3bAtJesnUj", str)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name        string
		encoding    Encoding
		str         string
		expectedErr error
	}{
		{
			name:        "hex missing prefix",
			encoding:    Hex,
			str:         "abcd",
			expectedErr: errMissingHexPrefix,
		},
		{
			name:        "hex bad checksum",
			encoding:    Hex,
			str:         "0x0102030405",
			expectedErr: errBadChecksum,
		},
		{
			name:        "hex too short",
			encoding:    Hex,
			str:         "0x0102",
			expectedErr: errMissingChecksum,
		},
		{
			name:        "invalid encoding",
			encoding:    Encoding(200),
			str:         "0x00",
			expectedErr: errInvalidEncoding,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.encoding, test.str)
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestEncodingJSON(t *testing.T) {
	require := require.New(t)

	for _, encoding := range []Encoding{Hex, HexNC, CB58} {
		b, err := json.Marshal(encoding)
		require.NoError(err)

		var parsed Encoding
		require.NoError(json.Unmarshal(b, &parsed))
		require.Equal(encoding, parsed)
	}
	_, err := json.Marshal(Encoding(9))
	require.Error(err)
}
