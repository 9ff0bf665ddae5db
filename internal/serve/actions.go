package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtnitsch/realtor-scraper/internal/common"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/collector"
	"github.com/dtnitsch/realtor-scraper/pkg/fetcher"
	"github.com/dtnitsch/realtor-scraper/pkg/server"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 15 * time.Second

// ServeAction runs the HTTP API and landing page until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}

	col := collector.New(cfg, fetcher.NewFetcher(cfg.Fetch), logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(col, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.Server.Addr, "max_pages", cfg.Crawl.MaxPages, "page_delay", cfg.Crawl.PageDelay.String())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	return nil
}
