package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/realtor-scraper/internal/scrape"
	"github.com/dtnitsch/realtor-scraper/internal/serve"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file (optional; REALTOR_SCRAPER_* env vars and .env override it)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log every crawled page",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "realtor-scraper",
		Usage: "Collect real-estate broker names from SUUMO and HOME'S listing pages",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web UI and POST /api/scrape",
				Action: serve.ServeAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default :5000)",
					},
				}, commonFlags()...),
			},
			{
				Name:      "scrape",
				Usage:     "Collect broker names once and print them",
				UsageText: `realtor-scraper scrape --urls "https://suumo.jp/...,https://www.homes.co.jp/..."`,
				Action:    scrape.ScrapeAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "urls",
						Usage: "Comma-separated SUUMO or HOME'S URLs",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "yaml",
						Usage: "Output format: yaml or json",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "SUUMO pages to follow per URL (default 10)",
					},
				}, commonFlags()...),
			},
		},
	}
}
