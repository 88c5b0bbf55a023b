// Package tesseract recognizes lines of text with the Tesseract OCR engine.
//
// Tesseract support is compiled in with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// This requires Tesseract to be installed. Without the tag Recognize
// fails with ErrOCRNotEnabled.
package tesseract

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
	readerimage "github.com/vegarsti/reader/image"
)

const name = "tesseract"

// ErrOCRNotEnabled is the cause of every recognition failure when OCR
// support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Recognizer runs Tesseract on images, one text line per fragment.
type Recognizer struct {
	// Language is a "+" separated list of Tesseract languages, e.g. "eng+nor".
	Language string
	// MaxSide downscales larger images before recognition. Zero keeps the size.
	MaxSide int
	Log     logrus.FieldLogger
}

func New(language string, maxSide int) *Recognizer {
	if language == "" {
		language = "eng"
	}
	return &Recognizer{Language: language, MaxSide: maxSide, Log: logrus.StandardLogger()}
}

// line is a recognized text line in pixel coordinates.
type line struct {
	Rect       image.Rectangle
	Text       string
	Confidence float64
}

func toFragments(lines []line, width int, height int) ([]reader.Fragment, error) {
	if width <= 0 || height <= 0 {
		return nil, reader.NewTypeMismatchError("image without size")
	}
	fragments := make([]reader.Fragment, 0, len(lines))
	for _, l := range lines {
		if l.Rect.Empty() {
			continue
		}
		f := reader.NewFragment(readerimage.Normalize(l.Rect, width, height), l.Text)
		if f.Usable() {
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}

func (r *Recognizer) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
