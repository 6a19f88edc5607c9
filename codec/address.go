// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
)

const AddressLen = 33

// Address represents the 33 byte address of an account, asset or contract.
// The first byte is the type ID (see consts), the rest is an [ids.ID].
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// ToAddress returns an [Address] from [b] if it has the exact length.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, ErrInvalidSize
	}
	copy(a[:], b)
	return a, nil
}

// StringToAddress parses a hex encoded address, with or without the 0x
// prefix.
func StringToAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// TypeID returns the address type tag.
func (a Address) TypeID() uint8 {
	return a[0]
}

// Compare orders addresses by their raw bytes.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Short returns a truncated form of the address for log lines.
func (a Address) Short() string {
	s := hex.EncodeToString(a[:])
	return "0x" + s[:8] + ".." + s[len(s)-6:]
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	decoded, err := LoadHex(strings.TrimSpace(string(input)), AddressLen)
	if err != nil {
		return err
	}
	copy(a[:], decoded)
	return nil
}
