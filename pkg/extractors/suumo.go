package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/realtor-scraper/models"
)

// SuumoStrategies lists the SUUMO layouts in priority order.
var SuumoStrategies = []Strategy{
	// Search results (bc_*): first block inside each note box item.
	textOf("search_results", ".detailnote-box-item > div:first-of-type"),
	// Detail page (jnc_*) listing every shop handling the property.
	textOf("detail_multi", ".itemcassette-header-ttl"),
	// Detail page showing only the main shop's reservation card.
	textOf("detail_single", ".advance_actioncard_reserve-sales-title"),
}

// SuumoPage is what one SUUMO page yields.
type SuumoPage struct {
	Companies models.CompanySet
	Layout    string // name of the matching strategy, "" when none matched

	// NextHref is the raw, possibly relative, next page link.
	NextHref string
	HasNext  bool
}

// ExtractSuumo applies SuumoStrategies and looks for a next page link.
// The link lookup does not depend on which layout matched.
func ExtractSuumo(doc *goquery.Document) SuumoPage {
	companies, layout := FirstMatch(doc, SuumoStrategies)
	page := SuumoPage{Companies: companies, Layout: layout}
	page.NextHref, page.HasNext = nextPageHref(doc)
	return page
}

func nextPageHref(doc *goquery.Document) (string, bool) {
	next := doc.Find(".pagination-next").First()
	if next.Length() == 0 {
		return "", false
	}

	// The class sits on the anchor in some templates and on its wrapper in others.
	href, ok := next.Attr("href")
	if !ok {
		href, ok = next.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false
	}
	return href, true
}
