// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/oracle"
	"github.com/fetch-ld/ldengine/requester"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester

	deployment *genesis.Deployment
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// Deployment is cached after the first successful call.
func (cli *JSONRPCClient) Deployment(ctx context.Context) (*genesis.Deployment, error) {
	if cli.deployment != nil {
		return cli.deployment, nil
	}
	resp := new(DeploymentReply)
	if err := cli.requester.SendRequest(ctx, "deployment", nil, resp); err != nil {
		return nil, err
	}
	cli.deployment = resp.Deployment
	return resp.Deployment, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, asset codec.Address, account codec.Address) (*uint256.Int, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Asset: asset, Account: account},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Rate(ctx context.Context) (*oracle.Rate, error) {
	resp := new(RateReply)
	err := cli.requester.SendRequest(ctx, "rate", nil, resp)
	return resp.Rate, err
}

func (cli *JSONRPCClient) Positions(ctx context.Context) ([]*ldmanager.Position, int64, error) {
	resp := new(PositionsReply)
	err := cli.requester.SendRequest(ctx, "positions", nil, resp)
	return resp.Positions, resp.Now, err
}

func (cli *JSONRPCClient) Quote(ctx context.Context, actor codec.Address, amount *uint256.Int) (*gateway.Receipt, error) {
	resp := new(QuoteReply)
	err := cli.requester.SendRequest(
		ctx,
		"quote",
		&QuoteArgs{Actor: actor, Amount: amount},
		resp,
	)
	return resp.Receipt, err
}

// Submit executes [action] as [actor] and returns the committed result.
func (cli *JSONRPCClient) Submit(ctx context.Context, actor codec.Address, action string, params any) (*Result, error) {
	args, err := newActionArgs(actor, action, params)
	if err != nil {
		return nil, err
	}
	resp := new(SubmitReply)
	if err := cli.requester.SendRequest(ctx, "submit", args, resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (cli *JSONRPCClient) Simulate(ctx context.Context, actor codec.Address, action string, params any) (*SimulateReply, error) {
	args, err := newActionArgs(actor, action, params)
	if err != nil {
		return nil, err
	}
	resp := new(SimulateReply)
	if err := cli.requester.SendRequest(ctx, "simulate", args, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func newActionArgs(actor codec.Address, action string, params any) (*ActionArgs, error) {
	raw, ok := params.(json.RawMessage)
	if !ok {
		var err error
		raw, err = json.Marshal(params)
		if err != nil {
			return nil, err
		}
	}
	return &ActionArgs{Actor: actor, Action: action, Params: raw}, nil
}
