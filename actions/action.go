// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package actions defines the state transitions the engine executes.
package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
)

// Action is one state transition. Execute may leave partial writes in [mu]
// when it fails; the engine discards them.
type Action interface {
	codec.Typed

	// Execute runs the action as [actor] at [timestamp] (unix ms).
	Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error)
}

var registry = map[string]func() Action{
	"deposit":                  func() Action { return &Deposit{} },
	"updateSplitFormula":       func() Action { return &UpdateSplitFormula{} },
	"updateDAOWallet":          func() Action { return &UpdateDAOWallet{} },
	"updateCutStatus":          func() Action { return &UpdateCutStatus{} },
	"releaseMatured":           func() Action { return &ReleaseMatured{} },
	"rebalanceMatured":         func() Action { return &RebalanceMatured{} },
	"updateOperator":           func() Action { return &UpdateOperator{} },
	"updateWhiteList":          func() Action { return &UpdateWhiteList{} },
	"transfer":                 func() Action { return &Transfer{} },
	"approve":                  func() Action { return &Approve{} },
	"excludeFromFee":           func() Action { return &ExcludeFromFee{} },
	"excludeFromTransferLimit": func() Action { return &ExcludeFromTransferLimit{} },
	"swapExactETHForTokens":    func() Action { return &SwapExactETHForTokens{} },
	"swapExactTokensForETH":    func() Action { return &SwapExactTokensForETH{} },
}

// Parse decodes the JSON parameters of the action registered as [name].
func Parse(name string, params []byte) (Action, error) {
	newAction, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	a := newAction()
	if len(params) > 0 {
		if err := json.Unmarshal(params, a); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return a, nil
}

var names = func() map[uint8]string {
	m := make(map[uint8]string, len(registry))
	for name, newAction := range registry {
		m[newAction().GetTypeID()] = name
	}
	return m
}()

// Name returns the registered name of [a].
func Name(a Action) string {
	if name, ok := names[a.GetTypeID()]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", a.GetTypeID())
}

// Registered reports whether [name] is a known action.
func Registered(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns every registered action name in order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
