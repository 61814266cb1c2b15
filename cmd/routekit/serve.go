package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/pkg/routedebug"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route debug view and metrics",
		Long: `Serve a JSON view of the resolved route tree.

Endpoints:
  GET /debug/routes
  GET /debug/routes/modules
  GET /debug/routes/match?uri=...
  GET /metrics

Examples:
  routekit serve
  routekit serve --addr=:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8090", "Address to listen on")

	return cmd
}

func runServe(flags *globalFlags, addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p, err := loadProject(ctx, flags)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Mount("/debug", routedebug.New(p.provider,
		routedebug.WithContextManager(p.contextManager()),
		routedebug.WithLogger(slog.Default().With("component", "routedebug"))))
	r.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	printBanner()
	success("Serving %d routes from %s", p.table.Len(), p.manifestPath)
	info("http://%s/debug/routes", addr)
	info("http://%s/metrics", addr)
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "\n  Shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
