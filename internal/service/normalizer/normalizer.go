// Package normalizer repairs formatting defects in generated replies before
// they reach the user. Clean is total and idempotent: a lexical scrub pass
// removes leakage and markup, then the text is parsed into a small
// structural model and serialized back deterministically, so rule ordering
// cannot produce divergent output.
package normalizer

import (
	"regexp"
	"strings"
)

type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Clean(text string) string {
	return Clean(text)
}

func Clean(text string) string {
	doc := parse(scrub(text))
	return doc.render()
}

// Structural headers the generator is prompted to emit. Matched capitalized
// only so prose like "the plan: leave early" stays untouched.
var (
	headerBreakRe  = regexp.MustCompile(`(\S)[ \t]+((?:Plan|Recommendation|Sources):)`)
	headerLineRe   = regexp.MustCompile(`^(Plan|Recommendation):\s*(.*)$`)
	sourcesLineRe  = regexp.MustCompile(`^Sources:\s*(.*)$`)
	itemMarkerRe   = regexp.MustCompile(`^(\d+[.)]|[-•*])\s+`)
	inlineItemRe   = regexp.MustCompile(`\s+(\d+[.)])\s+`)
	inlineBulletRe = regexp.MustCompile(`\s+[-•*]\s+([A-Za-z])`)
)

type section struct {
	title string
	prose []string
	items []string
}

type document struct {
	lead     []string
	sections []section
	tail     []string
	sources  []string
}

func parse(text string) *document {
	// Headers buried mid-line start their own line first.
	text = headerBreakRe.ReplaceAllString(text, "$1\n$2")

	doc := &document{}
	var cur *section

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if m := sourcesLineRe.FindStringSubmatch(line); m != nil {
			doc.sources = append(doc.sources, strings.TrimSpace(m[1]))
			cur = nil
			continue
		}
		if m := headerLineRe.FindStringSubmatch(line); m != nil {
			doc.sections = append(doc.sections, section{title: m[1]})
			cur = &doc.sections[len(doc.sections)-1]
			for _, item := range splitInlineItems(m[2]) {
				cur.items = append(cur.items, item)
			}
			continue
		}

		switch {
		case cur == nil && len(doc.sections) == 0:
			if line != "" || len(doc.lead) > 0 {
				doc.lead = append(doc.lead, line)
			}
		case cur == nil:
			if line != "" {
				doc.tail = append(doc.tail, line)
			}
		case line == "":
			// Blank line closes the open section.
			cur = nil
		case itemMarkerRe.MatchString(line):
			for _, item := range splitInlineItems(line) {
				cur.items = append(cur.items, item)
			}
		case len(cur.items) == 0:
			cur.prose = append(cur.prose, line)
		default:
			// Prose after items ends the block; it belongs to the
			// closing caveat.
			doc.tail = append(doc.tail, line)
			cur = nil
		}
	}

	// Drop trailing blank lead lines left by the split.
	for len(doc.lead) > 0 && doc.lead[len(doc.lead)-1] == "" {
		doc.lead = doc.lead[:len(doc.lead)-1]
	}

	return doc
}

// splitInlineItems breaks "1. see the museum 2. eat lunch" into one item
// per element. Bullet glyphs are normalized to "-". Content with no marker
// at all is returned as a single item.
func splitInlineItems(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	cuts := inlineItemRe.FindAllStringSubmatchIndex(content, -1)
	pieces := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		pieces = append(pieces, content[prev:c[0]])
		prev = c[2] // keep the numbered marker with its item
	}
	pieces = append(pieces, content[prev:])

	items := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if m := itemMarkerRe.FindStringSubmatch(p); m != nil && !strings.ContainsAny(m[1], "0123456789") {
			items = append(items, splitBulletRun(strings.TrimSpace(p[len(m[0]):]))...)
			continue
		}
		items = append(items, p)
	}
	return items
}

// splitBulletRun breaks "bring a jacket - book lunch ahead" into separate
// "- " items. Cuts only happen before a letter, so numeric ranges like
// "10 - 12" stay intact.
func splitBulletRun(rest string) []string {
	cuts := inlineBulletRe.FindAllStringSubmatchIndex(rest, -1)
	items := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		items = append(items, "- "+strings.TrimSpace(rest[prev:c[0]]))
		prev = c[2]
	}
	items = append(items, "- "+strings.TrimSpace(rest[prev:]))
	return items
}

func (d *document) render() string {
	var blocks []string

	if len(d.lead) > 0 {
		blocks = append(blocks, strings.Join(d.lead, "\n"))
	}
	for _, s := range d.sections {
		lines := []string{s.title + ":"}
		lines = append(lines, s.prose...)
		lines = append(lines, s.items...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(d.tail) > 0 {
		blocks = append(blocks, strings.Join(d.tail, "\n"))
	}
	for _, src := range d.sources {
		line := "Sources:"
		if src != "" {
			line += " " + src
		}
		blocks = append(blocks, line)
	}

	out := strings.Join(blocks, "\n\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
