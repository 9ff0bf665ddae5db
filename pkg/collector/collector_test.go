package collector

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/scrapeerr"
)

type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.calls = append(f.calls, url)
	html, ok := f.pages[url]
	if !ok {
		return nil, scrapeerr.Fetch(url, http.StatusServiceUnavailable, nil)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func newTestCollector(t *testing.T, pages map[string]string) (*Collector, *fakeFetcher) {
	t.Helper()
	cfg := models.DefaultConfig()
	cfg.Crawl.PageDelay = 0
	f := &fakeFetcher{pages: pages}
	return New(cfg, f, slog.New(slog.NewTextHandler(io.Discard, nil))), f
}

const (
	homesX      = "https://www.homes.co.jp/chintai/b-1/"
	homesBroken = "https://www.homes.co.jp/chintai/b-2/"
	homesWall   = "https://www.homes.co.jp/chintai/b-3/"
	suumoList   = "https://suumo.jp/jj/chintai/ichiran/FR301FC001/?ar=030"
)

var fixtures = map[string]string{
	homesX:    `<html><body><div class="realtorsTtl"><span class="name">X</span></div></body></html>`,
	homesWall: `<html><head><title>Are you human?</title></head><body><div class="g-recaptcha"></div></body></html>`,
	suumoList: `<html><body>
<div class="detailnote-box-item"><div>Company A</div></div>
<div class="detailnote-box-item"><div>Company B</div></div>
<div class="detailnote-box-item"><div>X</div></div>
</body></html>`,
}

func TestCollect_FailSoftPerURL(t *testing.T) {
	c, _ := newTestCollector(t, fixtures)

	res, err := c.Collect(context.Background(), []string{homesX, homesBroken})
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if !reflect.DeepEqual(res.Companies, []string{"X"}) || res.Count != 1 {
		t.Errorf("result = %+v, want [X] count 1", res)
	}
	if len(res.Failures) != 1 || res.Failures[0].URL != homesBroken || res.Failures[0].Kind != "fetch_failed" {
		t.Errorf("failures = %+v", res.Failures)
	}
}

func TestCollect_VerificationWallIsSoft(t *testing.T) {
	c, _ := newTestCollector(t, fixtures)

	res, err := c.Collect(context.Background(), []string{homesWall, homesX})
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("count = %d, want 1", res.Count)
	}
	if len(res.Failures) != 1 || res.Failures[0].Kind != "verification_wall" {
		t.Fatalf("failures = %+v", res.Failures)
	}
	if !strings.Contains(res.Failures[0].Error, "manually") {
		t.Errorf("wall failure should ask for manual action: %q", res.Failures[0].Error)
	}
}

func TestCollect_MergesAndSortsAcrossSites(t *testing.T) {
	c, _ := newTestCollector(t, fixtures)

	res, err := c.Collect(context.Background(), []string{suumoList, homesX})
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	want := []string{"Company A", "Company B", "X"}
	if !reflect.DeepEqual(res.Companies, want) || res.Count != 3 {
		t.Errorf("result = %+v, want %v", res, want)
	}
}

func TestCollect_FailFast(t *testing.T) {
	tests := []struct {
		name     string
		urls     []string
		wantKind scrapeerr.Kind
		wantURL  string
	}{
		{
			name:     "missing scheme",
			urls:     []string{suumoList, "suumo.jp/chintai/"},
			wantKind: scrapeerr.MalformedURL,
			wantURL:  "suumo.jp/chintai/",
		},
		{
			name:     "unsupported site",
			urls:     []string{homesX, "https://www.athome.co.jp/chintai/"},
			wantKind: scrapeerr.UnsupportedSite,
			wantURL:  "https://www.athome.co.jp/chintai/",
		},
		{
			name:     "first offender wins",
			urls:     []string{"https://example.com/", "not a url"},
			wantKind: scrapeerr.UnsupportedSite,
			wantURL:  "https://example.com/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := newTestCollector(t, fixtures)

			res, err := c.Collect(context.Background(), tt.urls)
			if scrapeerr.KindOf(err) != tt.wantKind {
				t.Fatalf("error kind = %v, want %v (err=%v)", scrapeerr.KindOf(err), tt.wantKind, err)
			}
			if !strings.Contains(err.Error(), tt.wantURL) {
				t.Errorf("error %q does not name %q", err, tt.wantURL)
			}
			if res.Count != 0 || len(res.Companies) != 0 {
				t.Errorf("expected no companies, got %+v", res)
			}
			if len(f.calls) != 0 {
				t.Errorf("fetched %v before failing", f.calls)
			}
		})
	}
}

func TestCollect_SkipsBlankEntries(t *testing.T) {
	c, f := newTestCollector(t, fixtures)

	res, err := c.Collect(context.Background(), []string{"", "   ", "  " + homesX + "\n"})
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("count = %d, want 1", res.Count)
	}
	if !reflect.DeepEqual(f.calls, []string{homesX}) {
		t.Errorf("calls = %v, want trimmed URL only", f.calls)
	}
}

func TestCollect_Empty(t *testing.T) {
	c, _ := newTestCollector(t, fixtures)

	res, err := c.Collect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}
	if res.Count != 0 || res.Companies == nil {
		t.Errorf("result = %#v, want empty non-nil companies", res)
	}
}
