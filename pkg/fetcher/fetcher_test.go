package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dtnitsch/realtor-scraper/models"
	"github.com/dtnitsch/realtor-scraper/pkg/scrapeerr"
	"golang.org/x/text/encoding/japanese"
)

const samplePage = `<html><head><title>物件</title></head><body><div class="name">株式会社テスト不動産</div></body></html>`

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(models.DefaultConfig().Fetch)
}

func TestFetch_SendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	doc, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if gotUA != models.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, models.DefaultUserAgent)
	}
	if got := strings.TrimSpace(doc.Find(".name").Text()); got != "株式会社テスト不動産" {
		t.Errorf("name = %q", got)
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
			if scrapeerr.KindOf(err) != scrapeerr.FetchFailed {
				t.Fatalf("error kind = %v, want FetchFailed (err=%v)", scrapeerr.KindOf(err), err)
			}
			if !strings.Contains(err.Error(), srv.URL) {
				t.Errorf("error %q does not name the URL", err)
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), url)
	if scrapeerr.KindOf(err) != scrapeerr.FetchFailed {
		t.Errorf("error kind = %v, want FetchFailed", scrapeerr.KindOf(err))
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	cfg := models.DefaultConfig().Fetch
	cfg.Timeout = 50 * time.Millisecond
	_, err := NewFetcher(cfg).Fetch(context.Background(), srv.URL)
	if scrapeerr.KindOf(err) != scrapeerr.FetchFailed {
		t.Errorf("error kind = %v, want FetchFailed", scrapeerr.KindOf(err))
	}
}

func TestFetchBytes_Gzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		gz.Write([]byte(samplePage))
		gz.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	body, err := newTestFetcher(t).FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}
	if string(body) != samplePage {
		t.Errorf("body = %q", body)
	}
}

func TestFetchBytes_Brotli(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		br := brotli.NewWriter(&buf)
		br.Write([]byte(samplePage))
		br.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	body, err := newTestFetcher(t).FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}
	if string(body) != samplePage {
		t.Errorf("body = %q", body)
	}
}

func TestFetchBytes_TranscodesShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String(samplePage)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
		w.Write([]byte(encoded))
	}))
	defer srv.Close()

	body, err := newTestFetcher(t).FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}
	if string(body) != samplePage {
		t.Errorf("body = %q, want UTF-8 %q", body, samplePage)
	}
}

func TestFetchBytes_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("a"), 2048))
	}))
	defer srv.Close()

	cfg := models.DefaultConfig().Fetch
	cfg.MaxBodyBytes = 1024
	_, err := NewFetcher(cfg).FetchBytes(context.Background(), srv.URL)
	if scrapeerr.KindOf(err) != scrapeerr.FetchFailed {
		t.Errorf("error kind = %v, want FetchFailed", scrapeerr.KindOf(err))
	}
}
