// Package collector turns a list of listing URLs into one sorted list of
// broker names.
package collector

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dtnitsch/realtor-scraper/internal/common"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/crawler"
	"github.com/dtnitsch/realtor-scraper/pkg/extractors"
	"github.com/dtnitsch/realtor-scraper/pkg/scrapeerr"
	"github.com/dtnitsch/realtor-scraper/pkg/sites"
)

// Failure records a URL whose companies were dropped.
type Failure struct {
	URL   string `json:"url" yaml:"url"`
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
}

type Result struct {
	Companies []string  `json:"companies" yaml:"companies"`
	Count     int       `json:"count" yaml:"count"`
	Failures  []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type Collector struct {
	fetcher crawler.PageFetcher
	crawler *crawler.Crawler
	logger  *slog.Logger
}

func New(cfg models.Config, f crawler.PageFetcher, logger *slog.Logger) *Collector {
	return &Collector{
		fetcher: f,
		crawler: crawler.New(f, cfg.Crawl, logger),
		logger:  logger,
	}
}

type target struct {
	url  string
	site sites.Kind
}

// Collect processes urls in order, one at a time. Blank entries are skipped.
// A malformed or unsupported URL aborts the call before anything is fetched;
// any error while scraping a single URL only drops that URL.
func (c *Collector) Collect(ctx context.Context, urls []string) (Result, error) {
	targets, err := plan(urls)
	if err != nil {
		return Result{}, err
	}

	all := models.NewCompanySet()
	var failures []Failure

	for _, t := range targets {
		companies, err := c.scrape(ctx, t)
		if err != nil {
			kind := scrapeerr.KindOf(err)
			c.logger.Warn("Error scraping URL, skipping", "url", t.url, "site", t.site.String(), "kind", kind.String(), "error", err)
			failures = append(failures, Failure{URL: t.url, Kind: kind.String(), Error: err.Error()})
			continue
		}
		c.logger.Info("Scraped URL", "url", t.url, "site", t.site.String(), "companies", len(companies))
		for _, name := range companies {
			all.Add(name)
		}
	}

	return Result{
		Companies: all.Sorted(),
		Count:     all.Len(),
		Failures:  failures,
	}, nil
}

// plan validates and classifies every entry up front.
func plan(urls []string) ([]target, error) {
	targets := make([]target, 0, len(urls))
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if _, ok := common.ValidateURL(u); !ok {
			return nil, scrapeerr.Malformed(u)
		}
		site := sites.Classify(u)
		if site == sites.Unknown {
			return nil, scrapeerr.Unsupported(u)
		}
		targets = append(targets, target{url: u, site: site})
	}
	return targets, nil
}

func (c *Collector) scrape(ctx context.Context, t target) ([]string, error) {
	switch t.site {
	case sites.Suumo:
		return c.crawler.Crawl(ctx, t.url)
	case sites.Homes:
		doc, err := c.fetcher.Fetch(ctx, t.url)
		if err != nil {
			return nil, err
		}
		companies, wall := extractors.ExtractHomes(doc)
		if wall {
			return nil, scrapeerr.Wall(t.url)
		}
		return companies.Sorted(), nil
	}
	return nil, scrapeerr.Unsupported(t.url)
}
