// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"strings"
)

// LoadHex decodes [s], with or without a 0x prefix, and checks that it
// holds exactly [size] bytes. A negative [size] accepts any length.
func LoadHex(s string, size int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if size >= 0 && len(b) != size {
		return nil, ErrInvalidSize
	}
	return b, nil
}
