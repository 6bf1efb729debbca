package collect

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentHash fingerprints an item by title+content so a story republished
// under a different URL is still recognized as a duplicate.
func contentHash(title, content string) string {
	sum := sha256.Sum256([]byte(title + content))
	return hex.EncodeToString(sum[:])
}

// cleanText strips HTML markup and collapses whitespace.
func cleanText(text string) string {
	if text == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// firstImage extracts the src of the first <img> embedded in HTML content.
func firstImage(content string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img").First().Attr("src")
	return src
}

// qualityScore grades an item from 5.0 to 10.0 on simple title and content
// heuristics: a well-sized title that is not shouting, and substantial content.
func qualityScore(title, content string) float64 {
	score := 5.0

	if title != "" {
		if len(title) >= 20 && len(title) <= 100 {
			score += 1.0
		}
		if title != strings.ToUpper(title) {
			score += 0.5
		}
	}

	if content != "" {
		if len(content) >= 100 {
			score += 1.0
		}
		if len(content) >= 500 {
			score += 1.5
		}
	}

	if score > 10.0 {
		score = 10.0
	}
	return score
}
