package extractors

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/realtor-scraper/models"
)

// Strategy pulls broker names out of one known page layout.
// Extract must not touch anything but the document.
type Strategy struct {
	Name    string
	Extract func(doc *goquery.Document) models.CompanySet
}

// FirstMatch runs strategies in order and returns the first non-empty result
// together with the name of the strategy that produced it. When nothing
// matches it returns an empty set and "".
func FirstMatch(doc *goquery.Document, strategies []Strategy) (models.CompanySet, string) {
	for _, s := range strategies {
		if found := s.Extract(doc); found.Len() > 0 {
			return found, s.Name
		}
	}
	return models.NewCompanySet(), ""
}

// textOf builds a strategy collecting the trimmed text of every element
// matching selector.
func textOf(name, selector string) Strategy {
	return Strategy{
		Name: name,
		Extract: func(doc *goquery.Document) models.CompanySet {
			found := models.NewCompanySet()
			doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
				found.Add(s.Text())
			})
			return found
		},
	}
}
