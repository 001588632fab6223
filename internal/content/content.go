package content

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// Preview extracts the inbox-preview snippet from a broadcast's HTML body.
//
// AWeber broadcasts carry the preview either in a <meta name="x-preheader">
// tag or in a hidden element whose class contains "preheader". The meta tag
// wins when both are present. Missing or unparseable content yields an
// empty string, never an error.
func Preview(body string) string {
	if body == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	if v, ok := doc.Find(`meta[name="x-preheader"]`).Attr("content"); ok {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}

	var preview string
	doc.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !strings.Contains(strings.ToLower(class), "preheader") {
			return true
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			preview = text
			return false
		}
		return true
	})
	return preview
}

// BodyMarkdown converts a broadcast's HTML body to Markdown for the export
// document. Script and style elements are dropped first. Conversion failure
// degrades to an empty body rather than aborting the export.
func BodyMarkdown(body string) string {
	if body == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return ""
	}

	md, err := htmltomarkdown.ConvertString(cleaned)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}
