package models

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	URLs []string `json:"urls"`

	// Legacy single-URL field, used only when URLs is empty.
	URL string `json:"url,omitempty"`
}

// URLList returns the URLs to process, folding the legacy field in.
func (r ScrapeRequest) URLList() []string {
	if len(r.URLs) == 0 && r.URL != "" {
		return []string{r.URL}
	}
	return r.URLs
}

type ScrapeResponse struct {
	Companies []string `json:"companies" yaml:"companies"`
	Count     int      `json:"count" yaml:"count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
