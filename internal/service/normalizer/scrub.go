package normalizer

import (
	"regexp"

	"github.com/inbucket/html2text"
)

// Meta-instruction leakage stripped before any structural work. The list is
// maintained as traffic shows new leaks.
var metaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<\s*(thinking|scratchpad)\s*>.*?<\s*/\s*(thinking|scratchpad)\s*>`),
	regexp.MustCompile(`(?im)^\s*(?:step\s+\d+|thought|thinking|reasoning|internal\s+note)\s*:.*$`),
	regexp.MustCompile(`(?i)\[(?:internal|meta|system|planning|note\s+to\s+self)[^\]]*\]`),
	regexp.MustCompile(`(?im)^\s*(?:assistant|response|answer)\s*:\s*`),
	regexp.MustCompile(`(?i)\bas an ai(?: language)? model,?\s*`),
}

var (
	htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][^>\n]*>`)

	boldRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldAltRe   = regexp.MustCompile(`__([^_\n]+)__`)
	italicRe    = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicAltRe = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	strikeRe    = regexp.MustCompile(`~~([^~\n]+)~~`)
	headingRe   = regexp.MustCompile(`(?m)^#{1,6}\s*`)

	doubleColonRe = regexp.MustCompile(`:{2,}`)
	spaceRunRe    = regexp.MustCompile(`[ \t]{2,}`)
	trailingWSRe  = regexp.MustCompile(`(?m)[ \t]+$`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	looseBulletRe = regexp.MustCompile(`[ \t]+•[ \t]+`)
)

// scrub is the lexical phase: remove leakage, flatten stray HTML, strip
// emphasis markup and collapse duplicated punctuation and whitespace.
func scrub(text string) string {
	for _, re := range metaPatterns {
		text = re.ReplaceAllString(text, "")
	}

	if htmlTagRe.MatchString(text) {
		if flat, err := html2text.FromString(text); err == nil {
			text = flat
		}
	}

	text = boldRe.ReplaceAllString(text, "$1")
	text = boldAltRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = italicAltRe.ReplaceAllString(text, "$1")
	text = strikeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")

	text = doubleColonRe.ReplaceAllString(text, ":")
	text = looseBulletRe.ReplaceAllString(text, "\n• ")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = trailingWSRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	return text
}
