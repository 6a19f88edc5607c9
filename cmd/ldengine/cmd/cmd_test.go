// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/config"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/utils"
)

func testConfig(t *testing.T) *config.Config {
	c := config.NewDefault()
	dir := t.TempDir()
	c.Log.Directory = filepath.Join(dir, "logs")
	c.DatabaseDir = filepath.Join(dir, "db")
	c.RecorderPath = filepath.Join(dir, "history.db")
	c.Log.DisplayLevel = "off"
	return c
}

func TestLoadScenario(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "s.yaml")
	require.NoError(os.WriteFile(path, []byte("deposits:\n  - account: alice\n    amount: \"1.5\"\n    advanceDays: 2\n"), 0o600))
	s, err := loadScenario(path)
	require.NoError(err)
	require.Equal(genesis.DefaultPlan(), s.Genesis)
	require.Len(s.Deposits, 1)
	require.Equal("1.5", s.Deposits[0].Amount)
	require.Equal(int64(2), s.Deposits[0].AdvanceDays)

	path = filepath.Join(dir, "s.json")
	require.NoError(os.WriteFile(path, []byte(`{"deposits":[{"account":"bob","amount":"1"}]}`), 0o600))
	s, err = loadScenario(path)
	require.NoError(err)
	require.Equal("bob", s.Deposits[0].Account)

	path = filepath.Join(dir, "bad.yaml")
	require.NoError(os.WriteFile(path, []byte("deposits: [unclosed"), 0o600))
	_, err = loadScenario(path)
	require.ErrorIs(err, ErrInvalidScenario)
}

func TestReplay(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	n, err := open(testConfig(t), true)
	require.NoError(err)
	defer n.Close()

	s := &scenario{
		Genesis: genesis.DefaultPlan(),
		Deposits: []*step{
			{Account: "alice", Amount: "0.3"},
			{Account: "alice", Amount: "0.7"},
			{Account: "bob", Amount: "0.8", AdvanceDays: 31},
		},
	}
	require.NoError(replay(ctx, n, s))

	d, err := n.engine.Deployment()
	require.NoError(err)
	var pending []*ldmanager.Position
	require.NoError(n.engine.Read(ctx, func(ctx context.Context, im state.Immutable) error {
		pending, err = ldmanager.Pending(ctx, im, d.LDManager)
		return err
	}))
	// the 0.7 position matured and was released before bob's deposit
	require.Len(pending, 1)
	require.Equal(uint64(1), pending[0].ID)
}

func TestLiquidityTracksPairNative(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	n, err := open(testConfig(t), true)
	require.NoError(err)
	defer n.Close()
	d, err := n.engine.Initialize(ctx, genesis.DefaultPlan())
	require.NoError(err)

	before, err := liquidity(ctx, n.engine, d)
	require.NoError(err)
	require.Equal(utils.Units(500), before.Native)
	require.True(before.ManagerLP.IsZero())

	amount, err := utils.ParseAmount("0.7")
	require.NoError(err)
	r, err := n.engine.Execute(ctx, d.Accounts["alice"], &actions.Deposit{Gateway: d.Gateway, Value: amount})
	require.NoError(err)
	position := r.Output.(*actions.DepositResult).Position
	require.NotNil(position)

	after, err := liquidity(ctx, n.engine, d)
	require.NoError(err)
	require.Equal(new(uint256.Int).Add(before.Native, position.Native), after.Native)
	require.Equal(position.Liquidity, after.ManagerLP)
}

func TestPersistentNode(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	c := testConfig(t)

	n, err := open(c, false)
	require.NoError(err)
	d, err := n.deployment(ctx)
	require.NoError(err)
	n.Close()

	n, err = open(c, false)
	require.NoError(err)
	defer n.Close()
	loaded, err := n.deployment(ctx)
	require.NoError(err)
	require.Equal(d, loaded)
}

func TestExpand(t *testing.T) {
	require := require.New(t)
	d := &genesis.Deployment{
		Token:     genesis.Account("token"),
		TokenPair: genesis.Account("pair"),
		Gateway:   genesis.Account("gateway"),
		Accounts:  map[string]codec.Address{},
	}
	out := expand(`{"a":"$tokenPair","b":"$token","c":"$gateway"}`, d)
	require.True(strings.Contains(out, d.TokenPair.String()))
	require.True(strings.Contains(out, d.Token.String()))
	require.False(strings.Contains(out, "$"))

	addr, err := resolve("$gateway", d)
	require.NoError(err)
	require.Equal(d.Gateway, addr)
	addr, err = resolve("carol", d)
	require.NoError(err)
	require.Equal(genesis.Account("carol"), addr)
}
