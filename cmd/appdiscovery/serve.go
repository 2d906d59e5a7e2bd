package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/appdiscovery/registry"
)

// httpFromConfig is the --http value meaning "use server.http_addr".
const httpFromConfig = "config"

func newServeCmd(opts *rootOptions) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve app search and launch as MCP tools",
		Long: `Run an MCP server exposing search_apps, launch_app and list_apps.

By default the server speaks JSON-RPC over stdin/stdout. With --http it
listens for streamable HTTP on /mcp and SSE on /sse instead; a bare --http
uses server.http_addr from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cmd, opts, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			reg, err := registry.New(registry.Config{
				Discovery:  a.disc,
				ServerInfo: registry.ServerInfo{Name: "appdiscovery", Version: version},
				Logger:     a.logger,
			})
			if err != nil {
				return err
			}

			if httpAddr == "" {
				a.logger.Info("serving MCP over stdio")
				return registry.ServeStream(ctx, reg, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if httpAddr == httpFromConfig {
				httpAddr = a.cfg.Server.HTTPAddr
			}
			return serveHTTP(ctx, a, reg, httpAddr)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "listen address for HTTP transport")
	cmd.Flags().Lookup("http").NoOptDefVal = httpFromConfig
	return cmd
}

func serveHTTP(ctx context.Context, a *app, reg *registry.Registry, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           registry.NewMux(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving MCP over HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
