// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

const (
	Name              = "ldengine"
	JSONRPCEndpoint   = "/ext/ldengine"
	WebSocketEndpoint = "/ext/ldengine/ws"
	MetricsEndpoint   = "/ext/metrics"
)

var ErrNoOutput = errors.New("action produced no output")
