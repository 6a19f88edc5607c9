// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	typeID := byte(3)
	addrID := ids.GenerateTestID()

	addr := CreateAddress(typeID, addrID)
	require.Equal(typeID, addr.TypeID())
	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestStringToAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	parsed, err := StringToAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, parsed)

	_, err = StringToAddress("0x0102")
	require.ErrorIs(err, ErrInvalidSize)
	_, err = ToAddress(make([]byte, AddressLen-1))
	require.ErrorIs(err, ErrInvalidSize)
}

func TestCompare(t *testing.T) {
	require := require.New(t)
	a := CreateAddress(1, ids.ID{1})
	b := CreateAddress(1, ids.ID{2})
	require.Negative(a.Compare(b))
	require.Positive(b.Compare(a))
	require.Zero(a.Compare(a))
}
