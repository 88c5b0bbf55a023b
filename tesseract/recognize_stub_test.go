//go:build !ocr

package tesseract

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vegarsti/reader"
)

func TestRecognizeNotEnabled(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := New("eng", 0)
	r.Log = logger
	fragments, err := r.Recognize(context.Background(), reader.NewPNG([]byte("png")))
	assert.Equal(t, fragments == nil, true)
	assert.Equal(t, errors.Is(err, ErrOCRNotEnabled), true)
	assert.Equal(t, reader.IsCode(err, reader.ErrorRecognitionFailure), true)
	assert.Equal(t, len(hook.Entries), 1)
}
