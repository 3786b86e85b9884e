package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	odmcp "github.com/wagiedev/opendata-mcp-go"
	"github.com/wagiedev/opendata-mcp-go/internal/config"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func (a *app) runCmd() *cobra.Command {
	var (
		transport string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "run <provider>",
		Short: "Serve a provider over stdio or HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			if transport != "" {
				cfg.Transport = config.Transport(transport)
			}

			if addr != "" {
				cfg.Addr = addr
			}

			if err := cfg.Transport.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			name := args[0]

			opts := append(serverOptions(cfg, name, log), odmcp.WithCatalog(a.catalog))

			srv, err := odmcp.NewProviderServer(ctx, name, opts...)
			if err != nil {
				return err
			}

			log.Info("starting server",
				"provider", name,
				"transport", cfg.Transport,
				"tools", srv.Registry().Len(),
			)

			switch cfg.Transport {
			case config.TransportHTTP:
				ln, err := net.Listen("tcp", cfg.Addr)
				if err != nil {
					return fmt.Errorf("listen %s: %w", cfg.Addr, err)
				}

				return serveHTTP(ctx, log.Logger, srv, ln)
			default:
				err := srv.Serve(ctx, &mcp.StdioTransport{})
				if errors.Is(err, context.Canceled) {
					return nil
				}

				return err
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "transport: stdio or http (default from config, else stdio)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default "+config.DefaultHTTPAddr+")")

	return cmd
}

// serveHTTP serves srv on ln until ctx is cancelled, then shuts the HTTP
// server down gracefully and closes srv.
func serveHTTP(ctx context.Context, log *slog.Logger, srv *odmcp.Server, ln net.Listener) error {
	handler, err := srv.Handler()
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", "addr", ln.Addr().String())

		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed, closing connections", "error", err)

			if err := httpSrv.Close(); err != nil {
				return fmt.Errorf("http close: %w", err)
			}
		}

		return srv.Close()
	})

	return g.Wait()
}
