// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/utils"
)

// contracts names every address of [d] the way action params refer to
// them.
func contracts(d *genesis.Deployment) map[string]codec.Address {
	m := map[string]codec.Address{
		"owner":      d.Owner,
		"dao":        d.DAOWallet,
		"saleWallet": d.SaleWallet,
		"weth":       d.WETH,
		"token":      d.Token,
		"stable":     d.Stable,
		"factory":    d.Factory,
		"router":     d.Router,
		"tokenPair":  d.TokenPair,
		"stablePair": d.StablePair,
		"formula":    d.Formula,
		"altFormula": d.AltFormula,
		"ldManager":  d.LDManager,
		"sale":       d.Sale,
		"gateway":    d.Gateway,
	}
	for name, addr := range d.Accounts {
		if _, ok := m[name]; !ok {
			m[name] = addr
		}
	}
	return m
}

// sortedNames orders names longest first so "$tokenPair" is never read as
// "$token" followed by "Pair".
func sortedNames(m map[string]codec.Address) []string {
	names := maps.Keys(m)
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return names
}

// expand replaces every $name in [params] with the hex address it names.
func expand(params string, d *genesis.Deployment) string {
	m := contracts(d)
	var pairs []string
	for _, name := range sortedNames(m) {
		pairs = append(pairs, "$"+name, m[name].String())
	}
	return strings.NewReplacer(pairs...).Replace(params)
}

// resolve parses [s] as a $name, a 0x address, or a named account.
func resolve(s string, d *genesis.Deployment) (codec.Address, error) {
	if name, ok := strings.CutPrefix(s, "$"); ok {
		if addr, ok := contracts(d)[name]; ok {
			return addr, nil
		}
	}
	return genesis.ResolveAccount(s)
}

func printDeployment(d *genesis.Deployment) {
	m := contracts(d)
	names := maps.Keys(m)
	slices.Sort(names)
	for _, name := range names {
		utils.Outf("{{yellow}}%-12s{{/}} %s\n", name, m[name])
	}
}
