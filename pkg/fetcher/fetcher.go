package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/scrapeerr"
	"golang.org/x/net/html/charset"
)

// Fetcher performs single GET requests that look like a desktop browser.
// It makes exactly one attempt per call.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

func NewFetcher(cfg models.FetchConfig) *Fetcher {
	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch downloads url and parses it into a goquery document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := f.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, fmt.Errorf("failed to parse HTML: %w", err))
	}
	return doc, nil
}

// FetchBytes returns the response body decompressed and transcoded to UTF-8.
// Every failure is a scrapeerr FetchFailed error.
func (f *Fetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.8,en;q=0.6")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, fmt.Errorf("failed to make HTTP request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scrapeerr.Fetch(url, resp.StatusCode, nil)
	}

	raw, err := f.readBody(resp)
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, err)
	}

	utf8Reader, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, fmt.Errorf("failed to detect charset: %w", err))
	}
	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, scrapeerr.Fetch(url, 0, fmt.Errorf("failed to transcode body: %w", err))
	}
	return body, nil
}

func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(io.LimitReader(reader, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds limit of %d bytes", f.maxBodyBytes)
	}
	return body, nil
}
