package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ggufconv/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var (
		addr           string
		convertTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			log := newLogger(cfg, cmd)
			tc, err := newToolchain(cfg, log)
			if err != nil {
				return err
			}
			if err := tc.preflight(); err != nil {
				// Requests will fail with 503 until the tools appear.
				log.Warn().Err(err).Msg("conversion tools unavailable")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpapi.SetLogger(log.With().Str("component", "http").Logger())
			httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
			httpapi.SetConvertTimeout(convertTimeout)
			httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
			httpapi.SetBaseContext(ctx)
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(tc.runner),
				ReadHeaderTimeout: 10 * time.Second,
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				log.Info().Str("addr", cfg.Addr).Msg("ggufconv listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(sctx); err != nil {
					log.Error().Err(err).Msg("graceful shutdown error")
				}
				return nil
			})
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080 (defaults GGUFCONV_ADDR or :8080)")
	cmd.Flags().DurationVar(&convertTimeout, "convert-timeout", 0, "Abort /convert runs after this long (0 = no limit)")
	return cmd
}
