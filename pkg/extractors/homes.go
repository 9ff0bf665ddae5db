package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/realtor-scraper/models"
)

// wallIndicators are matched against the lower-cased title and page text.
var wallIndicators = []string{
	"recaptcha",
	"captcha",
	"robot",
	"ロボット",
	"人間確認",
	"セキュリティチェック",
	"security check",
	"are you human",
	"verify you are human",
	"not a robot",
}

const recaptchaSelector = `.g-recaptcha, [class*="recaptcha"], iframe[src*="recaptcha"]`

// Single-broker pages name the shop in a small paragraph; only text that
// looks like a company ("株式会社") or a branch ("店") qualifies.
var companyTokens = []string{"株式会社", "店"}

// HomesStrategies lists the HOME'S layouts in priority order.
var HomesStrategies = []Strategy{
	textOf("realtors_multi", ".realtorsTtl .name"),
	{Name: "realtor_single", Extract: homesSingleBroker},
}

// nonVisibleSelector matches elements whose text never reaches the reader.
// Listing pages load analytics and reCAPTCHA v3 scripts that mention "robots".
const nonVisibleSelector = "script, style, noscript, template"

// DetectVerificationWall reports whether doc is a bot check instead of a
// listing page.
func DetectVerificationWall(doc *goquery.Document) bool {
	title := strings.ToLower(doc.Find("title").First().Text())
	text := strings.ToLower(visibleText(doc))

	for _, indicator := range wallIndicators {
		if strings.Contains(text, indicator) || strings.Contains(title, indicator) {
			return true
		}
	}

	return doc.Find(recaptchaSelector).Length() > 0
}

// visibleText returns the document text without script and style contents.
// doc itself is left untouched.
func visibleText(doc *goquery.Document) string {
	page := doc.Selection.Clone()
	page.Find(nonVisibleSelector).Remove()
	return page.Text()
}

// ExtractHomes returns the brokers on a HOME'S page. The bool is true when
// the page is a verification wall, in which case the set is empty.
func ExtractHomes(doc *goquery.Document) (models.CompanySet, bool) {
	if DetectVerificationWall(doc) {
		return models.NewCompanySet(), true
	}
	companies, _ := FirstMatch(doc, HomesStrategies)
	return companies, false
}

// homesSingleBroker stops at the first qualifying paragraph.
func homesSingleBroker(doc *goquery.Document) models.CompanySet {
	found := models.NewCompanySet()
	doc.Find("p.text-sm.mb-1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := strings.TrimSpace(s.Text())
		if name == "" || !containsAny(name, companyTokens) {
			return true
		}
		found.Add(name)
		return false
	})
	return found
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
