// Package crawler follows SUUMO result pagination, one page at a time.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/extractors"
)

// PageFetcher is satisfied by *fetcher.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type Crawler struct {
	fetcher  PageFetcher
	maxPages int
	delay    time.Duration
	logger   *slog.Logger

	wait func(ctx context.Context, d time.Duration) error
}

func New(f PageFetcher, cfg models.CrawlConfig, logger *slog.Logger) *Crawler {
	return &Crawler{
		fetcher:  f,
		maxPages: cfg.MaxPages,
		delay:    cfg.PageDelay,
		logger:   logger,
		wait:     sleep,
	}
}

// Crawl visits startURL and its next pages until there is no next link or
// maxPages pages have been read. A failed page fails the whole crawl and
// nothing gathered from earlier pages is returned.
func (c *Crawler) Crawl(ctx context.Context, startURL string) ([]string, error) {
	base, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse start URL: %w", err)
	}

	all := models.NewCompanySet()
	current := startURL

	for pages := 0; pages < c.maxPages; {
		doc, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pages+1, err)
		}

		page := extractors.ExtractSuumo(doc)
		all.Merge(page.Companies)
		pages++
		c.logger.Debug("Crawled page", "url", current, "page", pages, "layout", page.Layout, "companies", page.Companies.Len())

		if !page.HasNext {
			break
		}
		if pages >= c.maxPages {
			c.logger.Info("Page limit reached", "url", startURL, "max_pages", c.maxPages)
			break
		}

		next, err := base.Parse(page.NextHref)
		if err != nil {
			c.logger.Warn("Unusable next page link", "url", current, "href", page.NextHref, "error", err)
			break
		}
		current = next.String()

		if err := c.wait(ctx, c.delay); err != nil {
			return nil, err
		}
	}

	return all.Sorted(), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
