// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/engine"
)

// Result is a committed action as sent over the wire. Output holds the
// action's typed result, for example an actions.DepositResult for a
// deposit.
type Result struct {
	Action       string          `json:"action"`
	Actor        codec.Address   `json:"actor"`
	Timestamp    int64           `json:"timestamp"`
	StateChanges int             `json:"stateChanges"`
	Output       json.RawMessage `json:"output"`
}

func newResult(r *engine.Result) (*Result, error) {
	output, err := json.Marshal(r.Output)
	if err != nil {
		return nil, err
	}
	return &Result{
		Action:       r.Action,
		Actor:        r.Actor,
		Timestamp:    r.Timestamp,
		StateChanges: r.StateChanges,
		Output:       output,
	}, nil
}

// Decode unmarshals the output into [v].
func (r *Result) Decode(v any) error {
	if len(r.Output) == 0 {
		return ErrNoOutput
	}
	return json.Unmarshal(r.Output, v)
}
