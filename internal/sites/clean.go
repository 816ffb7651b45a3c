package sites

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseFragment loads one answer bubble's outerHTML for cleanup.
func parseFragment(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// fenceCodeBlocks wraps every code element in triple-backtick fences so the
// plain-text rendering keeps the block boundaries the page showed. The fence
// sits immediately against the code text, no extra blank lines are added.
func fenceCodeBlocks(doc *goquery.Document) {
	doc.Find("code").Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("```\n")
		s.AfterHtml("\n```\n")
	})
}

// flattenText renders the cleaned document to trimmed plain text.
func flattenText(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Text())
}
