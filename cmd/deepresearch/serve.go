package main

import (
	"context"
	"fmt"
	"time"

	srv "github.com/mohammad-safakhou/deepresearch/internal/server"
	"github.com/mohammad-safakhou/deepresearch/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serveCMD(a *app) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Address = addr
				a.cfg.Server = a.cfg.Server.Normalize()
			}
			return a.serve(cmd.Context())
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default server.address)")
	return serve
}

func (a *app) serve(ctx context.Context) error {
	tele, err := telemetry.Setup(ctx, a.cfg.Telemetry, telemetry.Options{
		ServiceName:    "deepresearch",
		ServiceVersion: version,
		Logger:         a.logger,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	p, err := a.newPipeline(a.cfg, a.logger)
	if err != nil {
		return err
	}
	if a.cfg.Server.JWTSecret == "" {
		a.logger.Warn("server.jwt_secret not set, API is unauthenticated")
	}
	s := srv.New(srv.Options{
		Address:   a.cfg.Server.Address,
		JWTSecret: []byte(a.cfg.Server.JWTSecret),
		Assembler: p.Assembler,
		Answerer:  p.Answerer,
		Metrics:   tele.Handler(),
		Logger:    a.logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Start)
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil {
			a.logger.Warn("server shutdown", zap.Error(err))
		}
		if err := tele.Shutdown(sctx); err != nil {
			a.logger.Warn("telemetry shutdown", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
