// Package sites maps listing URLs to the portal they belong to.
package sites

import (
	"net/url"
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	Suumo        // paginated search results and detail pages
	Homes        // single- or multi-broker detail pages
)

const (
	suumoHost = "suumo.jp"
	homesHost = "homes.co.jp"
)

func (k Kind) String() string {
	switch k {
	case Suumo:
		return "SUUMO"
	case Homes:
		return "HOME'S"
	default:
		return "unknown"
	}
}

// Classify looks only at the host, by substring. It never fetches anything,
// and a host such as "suumo.jp.example.com" is classified as SUUMO.
func Classify(rawURL string) Kind {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Unknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case strings.Contains(host, suumoHost):
		return Suumo
	case strings.Contains(host, homesHost):
		return Homes
	}
	return Unknown
}
