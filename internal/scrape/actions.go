package scrape

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dtnitsch/realtor-scraper/internal/common"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/collector"
	"github.com/dtnitsch/realtor-scraper/pkg/fetcher"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// ScrapeAction runs one collection from the command line and prints the
// result on stdout.
func ScrapeAction(c *cli.Context) error {
	logger := common.NewLogger(os.Stderr, c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
	}
	if c.IsSet("max-pages") {
		cfg.Crawl.MaxPages = c.Int("max-pages")
		if err := cfg.Validate(); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 2)
		}
	}

	urls := common.SplitURLList(c.String("urls"))
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No URLs provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  realtor-scraper scrape --urls "https://suumo.jp/...,https://www.homes.co.jp/..."`)
		return cli.Exit("", 1)
	}

	format := strings.ToLower(c.String("format"))
	if format != "yaml" && format != "json" {
		return cli.Exit(fmt.Sprintf("Error: unknown format %q (want yaml or json)", format), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	col := collector.New(cfg, fetcher.NewFetcher(cfg.Fetch), logger)
	res, err := col.Collect(ctx, urls)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	return writeResult(c.App.Writer, res, format)
}

func writeResult(w io.Writer, res collector.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	data, err := yaml.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = w.Write(data)
	return err
}
