// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import "strconv"

// Uint32 and Uint64 are encoded as quoted decimal strings.
type (
	Uint32 uint32
	Uint64 uint64
)

func (u Uint32) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint32) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 32)
	if err != nil {
		return err
	}
	*u = Uint32(val)
	return nil
}

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	val, err := parseUint(b, 64)
	if err != nil {
		return err
	}
	*u = Uint64(val)
	return nil
}

// parseUint accepts both quoted and bare numbers. null decodes to zero.
func parseUint(b []byte, bitSize int) (uint64, error) {
	str := string(b)
	if str == Null {
		return 0, nil
	}
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			str = str[1:lastIndex]
		}
	}
	return strconv.ParseUint(str, 10, bitSize)
}
