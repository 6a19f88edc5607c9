// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fetch-ld/ldengine/keeper"
	"github.com/fetch-ld/ldengine/rpc"
	"github.com/fetch-ld/ldengine/server"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the API and run the position keeper until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			n, err := open(c.config, false)
			if err != nil {
				return err
			}
			defer n.Close()

			d, err := n.deployment(ctx)
			if err != nil {
				return err
			}

			if c.config.Keeper.Enabled {
				operator, err := resolve(c.config.Keeper.Operator, d)
				if err != nil {
					return err
				}
				k, err := keeper.New(n.log, n.engine, d.LDManager, operator, c.config.Keeper.Mode)
				if err != nil {
					return err
				}
				if err := k.Schedule(ctx, c.config.Keeper.Schedule); err != nil {
					return err
				}
				k.Start()
				defer k.Stop()
			}

			api := c.config.API
			listener, err := net.Listen("tcp", api.Addr)
			if err != nil {
				return err
			}
			s := server.New(n.log, listener, api.HTTP, api.AllowedOrigins, api.AllowedHosts, c.config.ShutdownTimeout)

			handler, err := server.NewHandler(rpc.NewJSONRPCServer(n.engine), rpc.Name)
			if err != nil {
				return err
			}
			ws, pubsubServer := rpc.NewWebSocketServer(n.log, api.WebSocket)
			n.engine.AddListener(ws)
			for path, h := range map[string]http.Handler{
				rpc.JSONRPCEndpoint:   handler,
				rpc.WebSocketEndpoint: pubsubServer,
				rpc.MetricsEndpoint:   promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{}),
			} {
				if err := s.AddRoute(h, path); err != nil {
					return err
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(s.Dispatch)
			g.Go(func() error {
				<-gctx.Done()
				n.log.Info("shutting down", zap.Stringer("addr", listener.Addr()))
				return s.Shutdown()
			})
			return g.Wait()
		},
	}
}
