// Package scrapeerr defines the closed set of error kinds produced while
// collecting broker names, so callers can tell fail-fast conditions from
// per-URL failures without matching on message text.
package scrapeerr

import (
	"errors"
	"fmt"
)

// Kind classifies a scrape error.
type Kind int

const (
	// Internal covers anything not produced by this package.
	Internal Kind = iota
	// MalformedURL means the input lacks a scheme or host. Aborts the whole request.
	MalformedURL
	// UnsupportedSite means the host matches neither portal. Aborts the whole request.
	UnsupportedSite
	// FetchFailed is a transport, timeout or HTTP status failure for one page.
	FetchFailed
	// VerificationWall means a bot check was served instead of the listing.
	VerificationWall
)

func (k Kind) String() string {
	switch k {
	case MalformedURL:
		return "malformed_url"
	case UnsupportedSite:
		return "unsupported_site"
	case FetchFailed:
		return "fetch_failed"
	case VerificationWall:
		return "verification_wall"
	default:
		return "internal"
	}
}

// Error is the concrete error carried through the collector.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int // 0 unless the server answered
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case MalformedURL:
		return fmt.Sprintf("invalid URL: %s", e.URL)
	case UnsupportedSite:
		return fmt.Sprintf("unsupported site, expected a SUUMO or HOME'S URL: %s", e.URL)
	case VerificationWall:
		return fmt.Sprintf("human verification (CAPTCHA) page served for %s; open it in a browser and complete the check manually before retrying", e.URL)
	case FetchFailed:
		if e.StatusCode != 0 {
			return fmt.Sprintf("failed to fetch %s: status code %d", e.URL, e.StatusCode)
		}
		if e.Err != nil {
			return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("failed to fetch %s", e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("internal error for %s: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("internal error for %s", e.URL)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Malformed(rawURL string) error {
	return &Error{Kind: MalformedURL, URL: rawURL}
}

func Unsupported(rawURL string) error {
	return &Error{Kind: UnsupportedSite, URL: rawURL}
}

// Fetch wraps a transport or decode failure. statusCode is 0 when no response arrived.
func Fetch(rawURL string, statusCode int, err error) error {
	return &Error{Kind: FetchFailed, URL: rawURL, StatusCode: statusCode, Err: err}
}

func Wall(rawURL string) error {
	return &Error{Kind: VerificationWall, URL: rawURL}
}

// KindOf reports the kind of err. Errors outside this package are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsFailFast reports whether err must abort the whole multi-URL request.
func IsFailFast(err error) bool {
	switch KindOf(err) {
	case MalformedURL, UnsupportedSite:
		return true
	}
	return false
}
