// Package reader rebuilds readable text from recognized text fragments:
// it puts the selected fragments into reading order and joins them into
// lines and paragraphs, merging words hyphenated at a line wrap.
package reader

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader/box"
)

// ExtractText returns the text of the selected fragments in the order given
// by strategy, with the default paragraph rule. It returns "" when nothing
// usable is selected.
func ExtractText(fragments []Fragment, selected []bool, strategy Strategy) string {
	return Assemble(fragments, Order(fragments, selected, strategy), DefaultParagraphRule)
}

type Extractor struct {
	strategy Strategy
	rule     ParagraphRule
	log      logrus.FieldLogger
}

type Option func(*Extractor)

func WithStrategy(s Strategy) Option {
	return func(e *Extractor) { e.strategy = s }
}

func WithParagraphRule(r ParagraphRule) Option {
	return func(e *Extractor) { e.rule = r }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) { e.log = l }
}

// NewExtractor defaults to the XYLinear strategy, the default paragraph rule
// and no logging.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		strategy: XYLinear,
		rule:     DefaultParagraphRule,
		log:      discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// Extract returns ErrEmptySelection if no selected fragment has usable text.
func (e *Extractor) Extract(fragments []Fragment, selected []bool) (string, error) {
	order := Order(fragments, selected, e.strategy)
	if len(order) == 0 {
		e.log.WithField("fragments", len(fragments)).Debug("nothing selected")
		return "", ErrEmptySelection
	}
	boxes := make([]box.Box, len(order))
	for i, idx := range order {
		boxes[i] = fragments[idx].Box
	}
	e.log.WithFields(logrus.Fields{
		"fragments": len(fragments),
		"selected":  len(order),
		"columns":   len(box.XRegions(boxes)),
		"rows":      len(box.YRegions(boxes)),
		"strategy":  e.strategy.String(),
		"rule":      e.rule.String(),
	}).Debug("extracting text")
	return Assemble(fragments, order, e.rule), nil
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
