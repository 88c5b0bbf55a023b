package reader

import (
	"strings"
	"unicode/utf8"

	"github.com/vegarsti/reader/box"
	"golang.org/x/text/unicode/norm"
)

// Fragment is one recognized text box with its best candidate string.
// Fragments are not modified after recognition.
type Fragment struct {
	Box  box.Box `json:"box"`
	Text string  `json:"text"`
}

// NewFragment trims and NFC-normalizes text.
func NewFragment(b box.Box, text string) Fragment {
	return Fragment{Box: b, Text: clean(text)}
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Usable reports whether the fragment has text left after trimming.
func (f Fragment) Usable() bool {
	return clean(f.Text) != ""
}

// symbolWidth is the average width of one character. Only call it on usable fragments.
func (f Fragment) symbolWidth() float64 {
	n := utf8.RuneCountInString(clean(f.Text))
	if n == 0 {
		return 0
	}
	return f.Box.Width() / float64(n)
}

// Usable drops fragments without text, keeping the relative order.
func Usable(fragments []Fragment) []Fragment {
	usable := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Usable() {
			usable = append(usable, f)
		}
	}
	return usable
}

// Selected returns the indices of fragments that are both selected and usable,
// in fragment order. Mask entries past the end of fragments are ignored.
func Selected(fragments []Fragment, selected []bool) []int {
	indices := make([]int, 0, len(fragments))
	for i, f := range fragments {
		if i < len(selected) && selected[i] && f.Usable() {
			indices = append(indices, i)
		}
	}
	return indices
}

// HasSelection reports whether at least one selected fragment has usable text.
func HasSelection(fragments []Fragment, selected []bool) bool {
	for i, f := range fragments {
		if i < len(selected) && selected[i] && f.Usable() {
			return true
		}
	}
	return false
}
