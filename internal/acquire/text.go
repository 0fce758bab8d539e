package acquire

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const articleBlockSelector = "h1,h2,h3,h4,h5,h6,p,li,pre,blockquote,figcaption,td,th"

var multiSpaceRe = regexp.MustCompile(` {2,}`)

// normalizeText splits on lines and on gaps of two or more spaces, trims
// every fragment, drops empty ones and rejoins with newlines.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, phrase := range multiSpaceRe.Split(line, -1) {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				continue
			}
			fragments = append(fragments, phrase)
		}
	}

	return strings.Join(fragments, "\n")
}

// renderBlocks turns distilled article HTML into paragraphs separated by
// blank lines. Nested blocks are rendered once, by their outermost block.
func renderBlocks(doc *goquery.Document) string {
	var blocks []string

	doc.Find(articleBlockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(articleBlockSelector).Length() > 0 {
			return
		}

		s.Find("br").Each(func(_ int, br *goquery.Selection) {
			br.ReplaceWithHtml("\n")
		})

		var block string
		if goquery.NodeName(s) == "pre" {
			block = strings.TrimSpace(s.Text())
		} else {
			block = strings.Join(strings.Fields(s.Text()), " ")
		}

		if block != "" {
			blocks = append(blocks, block)
		}
	})

	if len(blocks) == 0 {
		return normalizeText(doc.Text())
	}

	return strings.Join(blocks, "\n\n")
}
