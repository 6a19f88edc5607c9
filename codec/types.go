// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// Typed is implemented by every action and action result. The type ID is
// the first byte of its encoding.
type Typed interface {
	GetTypeID() uint8
}
