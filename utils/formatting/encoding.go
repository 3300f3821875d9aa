// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58/base58"

	"github.com/ava-labs/sharedmemory/utils/hashing"
)

const (
	hexPrefix    = "0x"
	checksumLen  = 4
	maxCB58Size  = 16 * 1024 // 16 KB
	hexStr       = "hex"
	hexNCStr     = "hexnc"
	cb58Str      = "cb58"
	hexQuoted    = `"` + hexStr + `"`
	hexNCQuoted  = `"` + hexNCStr + `"`
	cb58Quoted   = `"` + cb58Str + `"`
	invalidQuote = `"invalid"`
)

var (
	errInvalidEncoding  = errors.New("invalid encoding")
	errMissingHexPrefix = errors.New("missing 0x prefix to hex encoding")
	errMissingChecksum  = errors.New("input string is smaller than the checksum size")
	errBadChecksum      = errors.New("invalid input checksum")
	errEncodingOverFlow = errors.New("byte slice is too large for cb58")
)

// Encoding defines how bytes are converted to a string and vice versa
type Encoding uint8

const (
	// Hex specifies a hex plus 4 byte checksum encoding format
	Hex Encoding = iota
	// HexNC specifies a hex encoding format without a checksum
	HexNC
	// CB58 specifies the checksummed base58 encoding format
	CB58
)

func (enc Encoding) String() string {
	switch enc {
	case Hex:
		return hexStr
	case HexNC:
		return hexNCStr
	case CB58:
		return cb58Str
	default:
		return errInvalidEncoding.Error()
	}
}

func (enc Encoding) valid() bool {
	switch enc {
	case Hex, HexNC, CB58:
		return true
	}
	return false
}

func (enc Encoding) MarshalJSON() ([]byte, error) {
	if !enc.valid() {
		return []byte(invalidQuote), errInvalidEncoding
	}
	return []byte(`"` + enc.String() + `"`), nil
}

func (enc *Encoding) UnmarshalJSON(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "null":
		return nil
	case hexQuoted:
		*enc = Hex
	case hexNCQuoted:
		*enc = HexNC
	case cb58Quoted:
		*enc = CB58
	default:
		return errInvalidEncoding
	}
	return nil
}

// Encode [bytes] to a string using the given encoding format
func Encode(encoding Encoding, bytes []byte) (string, error) {
	switch encoding {
	case Hex:
		return hexPrefix + hex.EncodeToString(addChecksum(bytes)), nil
	case HexNC:
		return hexPrefix + hex.EncodeToString(bytes), nil
	case CB58:
		if len(bytes) > maxCB58Size {
			return "", fmt.Errorf("%w: length (%d) > maximum (%d)", errEncodingOverFlow, len(bytes), maxCB58Size)
		}
		return base58.Encode(addChecksum(bytes)), nil
	default:
		return "", errInvalidEncoding
	}
}

// Decode [str] to bytes using the given encoding
// If [str] is the empty string, returns a nil byte slice
func Decode(encoding Encoding, str string) ([]byte, error) {
	if !encoding.valid() {
		return nil, errInvalidEncoding
	}
	if len(str) == 0 {
		return nil, nil
	}

	var (
		decodedBytes []byte
		err          error
	)
	switch encoding {
	case Hex, HexNC:
		if !strings.HasPrefix(str, hexPrefix) {
			return nil, errMissingHexPrefix
		}
		decodedBytes, err = hex.DecodeString(str[len(hexPrefix):])
	case CB58:
		decodedBytes, err = base58.Decode(str)
	}
	if err != nil {
		return nil, err
	}
	if encoding == HexNC {
		return decodedBytes, nil
	}
	if len(decodedBytes) < checksumLen {
		return nil, errMissingChecksum
	}
	rawBytes := decodedBytes[:len(decodedBytes)-checksumLen]
	checksum := decodedBytes[len(decodedBytes)-checksumLen:]
	if !bytes.Equal(checksum, hashing.Checksum(rawBytes, checksumLen)) {
		return nil, errBadChecksum
	}
	return rawBytes, nil
}

func addChecksum(bytes []byte) []byte {
	checked := make([]byte, len(bytes)+checksumLen)
	copy(checked, bytes)
	copy(checked[len(bytes):], hashing.Checksum(bytes, checksumLen))
	return checked
}
