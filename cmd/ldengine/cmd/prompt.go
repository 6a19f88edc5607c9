// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/genesis"
)

var ErrInvalidJSON = errors.New("invalid JSON")

func promptAction() (string, error) {
	sel := promptui.Select{
		Label: "action",
		Items: actions.Names(),
		Size:  len(actions.Names()),
	}
	_, name, err := sel.Run()
	return name, err
}

func promptActor(def string, d *genesis.Deployment) (string, error) {
	promptText := promptui.Prompt{
		Label:   "actor",
		Default: def,
		Validate: func(input string) error {
			_, err := resolve(strings.TrimSpace(input), d)
			return err
		},
	}
	actor, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(actor), nil
}

// promptParams asks for the action's JSON fields and returns them with
// $names expanded.
func promptParams(d *genesis.Deployment) (string, error) {
	promptText := promptui.Prompt{
		Label:   "params",
		Default: "{}",
		Validate: func(input string) error {
			if !json.Valid([]byte(expand(input, d))) {
				return ErrInvalidJSON
			}
			return nil
		},
	}
	params, err := promptText.Run()
	if err != nil {
		return "", err
	}
	return expand(params, d), nil
}
