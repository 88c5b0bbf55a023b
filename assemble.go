package reader

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParagraphRule decides whether a short line may start or end a paragraph.
type ParagraphRule int

const (
	// SimpleParagraphs breaks on geometry alone.
	SimpleParagraphs ParagraphRule = iota
	// PunctuatedParagraphs also requires the text before the break to end in
	// '.', '?' or '!', or the text after it to start with an upper case letter.
	PunctuatedParagraphs
)

const DefaultParagraphRule = PunctuatedParagraphs

func (r ParagraphRule) String() string {
	switch r {
	case SimpleParagraphs:
		return "simple"
	case PunctuatedParagraphs:
		return "punctuated"
	}
	return fmt.Sprintf("ParagraphRule(%d)", int(r))
}

func ParseParagraphRule(s string) (ParagraphRule, error) {
	switch strings.ToLower(s) {
	case "simple":
		return SimpleParagraphs, nil
	case "punctuated":
		return PunctuatedParagraphs, nil
	}
	return DefaultParagraphRule, fmt.Errorf("unknown paragraph rule %q", s)
}

func (r ParagraphRule) allows(before, after string) bool {
	if r != PunctuatedParagraphs {
		return true
	}
	if strings.HasSuffix(before, ".") || strings.HasSuffix(before, "?") || strings.HasSuffix(before, "!") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(after)
	return unicode.IsUpper(first)
}

// A line ending or starting this many symbol widths away from the
// text borders is the end or start of a paragraph.
const paragraphIndent = 3

// Bounds are the borders of the selected text. MinSymbolWidth is the
// narrowest average character width among the selected fragments.
type Bounds struct {
	Left           float64
	Right          float64
	MinSymbolWidth float64
}

// ComputeBounds covers the usable fragments among indices. It reports false
// if there are none.
func ComputeBounds(fragments []Fragment, indices []int) (Bounds, bool) {
	var b Bounds
	found := false
	for _, i := range indices {
		f := fragments[i]
		if !f.Usable() {
			continue
		}
		sw := f.symbolWidth()
		if !found {
			b = Bounds{Left: f.Box.XLeft, Right: f.Box.XRight, MinSymbolWidth: sw}
			found = true
			continue
		}
		b.Left = min(b.Left, f.Box.XLeft)
		b.Right = max(b.Right, f.Box.XRight)
		b.MinSymbolWidth = min(b.MinSymbolWidth, sw)
	}
	return b, found
}

// assembly is the state carried from one fragment to the next.
type assembly struct {
	text     []byte
	prevLine string
	wordWrap bool
}

// Assemble concatenates the fragments in order, joining fragments on the same
// line with a space, merging words split by a trailing hyphen at a line wrap
// and separating paragraphs with a blank line.
func Assemble(fragments []Fragment, order []int, rule ParagraphRule) string {
	bounds, ok := ComputeBounds(fragments, order)
	if !ok {
		return ""
	}
	indent := paragraphIndent * bounds.MinSymbolWidth
	var acc assembly
	for pos, i := range order {
		f := fragments[i]
		line := clean(f.Text)
		if line == "" {
			continue
		}
		trimmed := line
		wordWrap := false
		end := ""
		if _, ok := RightNeighbor(fragments, order, pos); !ok {
			if strings.HasSuffix(line, "-") {
				wordWrap = true
				line = strings.TrimSuffix(line, "-")
			}
			if f.Box.XRight < bounds.Right-indent && rule.allows(trimmed, nextLine(fragments, order, pos)) {
				end = "\n\n"
			}
		}
		if len(acc.text) > 0 {
			if _, ok := LeftNeighbor(fragments, order, pos); ok {
				acc.text = append(acc.text, ' ')
			} else if acc.text[len(acc.text)-1] != '\n' {
				if f.Box.XLeft > bounds.Left+indent && rule.allows(acc.prevLine, trimmed) {
					acc.text = append(acc.text, "\n\n"...)
				} else if !acc.wordWrap {
					acc.text = append(acc.text, ' ')
				}
			}
		}
		acc.text = append(acc.text, line...)
		acc.text = append(acc.text, end...)
		acc.prevLine = trimmed
		acc.wordWrap = wordWrap
	}
	return string(acc.text)
}

func nextLine(fragments []Fragment, order []int, pos int) string {
	if pos+1 >= len(order) {
		return ""
	}
	return clean(fragments[order[pos+1]].Text)
}
