// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/actions"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/genesis"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/oracle"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/token"
)

// JSONRPCServer exposes the engine to operators. Callers name the actor
// they act as, so the endpoint must only be reachable by trusted clients.
type JSONRPCServer struct {
	e Engine
}

func NewJSONRPCServer(e Engine) *JSONRPCServer {
	return &JSONRPCServer{e}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (*JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	reply.Success = true
	return nil
}

type DeploymentReply struct {
	Deployment *genesis.Deployment `json:"deployment"`
}

func (j *JSONRPCServer) Deployment(_ *http.Request, _ *struct{}, reply *DeploymentReply) (err error) {
	reply.Deployment, err = j.e.Deployment()
	return err
}

type BalanceArgs struct {
	Asset   codec.Address `json:"asset"`
	Account codec.Address `json:"account"`
}

type BalanceReply struct {
	Amount *uint256.Int `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	return j.e.Read(req.Context(), func(ctx context.Context, im state.Immutable) (err error) {
		reply.Amount, err = token.BalanceOf(ctx, im, args.Asset, args.Account)
		return err
	})
}

type RateReply struct {
	Rate *oracle.Rate `json:"rate"`
}

func (j *JSONRPCServer) Rate(req *http.Request, _ *struct{}, reply *RateReply) error {
	d, err := j.e.Deployment()
	if err != nil {
		return err
	}
	src := oracle.New(d.Router, d.Token, d.Stable)
	return j.e.Read(req.Context(), func(ctx context.Context, im state.Immutable) (err error) {
		reply.Rate, err = src.Rate(ctx, im)
		return err
	})
}

type PositionsReply struct {
	Positions []*ldmanager.Position `json:"positions"`
	Now       int64                 `json:"now"`
}

func (j *JSONRPCServer) Positions(req *http.Request, _ *struct{}, reply *PositionsReply) error {
	d, err := j.e.Deployment()
	if err != nil {
		return err
	}
	reply.Now = j.e.Now()
	return j.e.Read(req.Context(), func(ctx context.Context, im state.Immutable) (err error) {
		reply.Positions, err = ldmanager.Pending(ctx, im, d.LDManager)
		return err
	})
}

type QuoteArgs struct {
	Actor  codec.Address `json:"actor"`
	Amount *uint256.Int  `json:"amount"`
}

type QuoteReply struct {
	Receipt *gateway.Receipt `json:"receipt"`
}

// Quote simulates a deposit of [args.Amount] through the deployed gateway.
func (j *JSONRPCServer) Quote(req *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	d, err := j.e.Deployment()
	if err != nil {
		return err
	}
	output, _, err := j.e.Simulate(req.Context(), args.Actor, &actions.Deposit{Gateway: d.Gateway, Value: args.Amount})
	if err != nil {
		return err
	}
	reply.Receipt = output.(*actions.DepositResult).Receipt
	return nil
}

type ActionArgs struct {
	Actor  codec.Address   `json:"actor"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params"`
}

type SubmitReply struct {
	Result *Result `json:"result"`
}

func (j *JSONRPCServer) Submit(req *http.Request, args *ActionArgs, reply *SubmitReply) error {
	a, err := actions.Parse(args.Action, args.Params)
	if err != nil {
		return err
	}
	r, err := j.e.Execute(req.Context(), args.Actor, a)
	if err != nil {
		return err
	}
	reply.Result, err = newResult(r)
	return err
}

type SimulateReply struct {
	Output json.RawMessage `json:"output"`
	Keys   []string        `json:"keys"`
}

func (j *JSONRPCServer) Simulate(req *http.Request, args *ActionArgs, reply *SimulateReply) error {
	a, err := actions.Parse(args.Action, args.Params)
	if err != nil {
		return err
	}
	output, keys, err := j.e.Simulate(req.Context(), args.Actor, a)
	if err != nil {
		return err
	}
	reply.Output, err = json.Marshal(output)
	if err != nil {
		return err
	}
	reply.Keys = keys.Sorted()
	return nil
}
