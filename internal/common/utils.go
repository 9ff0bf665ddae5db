package common

import (
	"net/url"
	"strings"
)

// ValidateURL parses rawURL and reports whether it carries both a scheme and
// a host. Nothing else is checked; an ftp:// URL passes and fails later at
// fetch time.
func ValidateURL(rawURL string) (*url.URL, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, false
	}
	return parsed, true
}

// SplitURLList splits a comma or newline separated list, trimming each entry
// and dropping blanks.
func SplitURLList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	urls := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}
