//go:build !ocr

package tesseract

import (
	"context"

	"github.com/vegarsti/reader"
)

// Recognize fails with ErrOCRNotEnabled.
func (r *Recognizer) Recognize(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	r.log().Warn("tesseract requested but OCR support is not compiled in")
	return nil, reader.NewRecognitionFailure(name, ErrOCRNotEnabled)
}
