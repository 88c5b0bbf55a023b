package reader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Recognizer runs OCR on a file. Errors are RecognitionErrors.
type Recognizer interface {
	Recognize(ctx context.Context, file *File) ([]Fragment, error)
}

// Cache stores recognized fragments by file checksum.
// GetFragments returns nil fragments and no error on a miss.
type Cache interface {
	GetFragments(ctx context.Context, checksum string) ([]Fragment, error)
	PutFragments(ctx context.Context, checksum string, fragments []Fragment) error
}

// CachedRecognizer serves recognitions from Cache when possible. Cache errors
// are logged and otherwise ignored.
type CachedRecognizer struct {
	Recognizer Recognizer
	Cache      Cache
	Log        logrus.FieldLogger
}

func (c *CachedRecognizer) Recognize(ctx context.Context, file *File) ([]Fragment, error) {
	log := c.Log
	if log == nil {
		log = discard()
	}
	log = log.WithField("checksum", file.Checksum)
	fragments, err := c.Cache.GetFragments(ctx, file.Checksum)
	if err != nil {
		log.WithError(err).Warn("cache lookup failed")
	} else if fragments != nil {
		log.WithField("fragments", len(fragments)).Debug("cache hit")
		return fragments, nil
	}
	fragments, err = c.Recognizer.Recognize(ctx, file)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.PutFragments(ctx, file.Checksum, fragments); err != nil {
		log.WithError(err).Warn("cache store failed")
	}
	return fragments, nil
}

// JSONRecognizer reads fragments that were recognized earlier and saved as a
// JSON array. Fragments without text are dropped.
type JSONRecognizer struct{}

func (JSONRecognizer) Recognize(ctx context.Context, file *File) ([]Fragment, error) {
	var raw []Fragment
	if err := json.Unmarshal(file.Bytes, &raw); err != nil {
		return nil, NewTypeMismatchError(fmt.Sprintf("fragments json: %v", err))
	}
	fragments := make([]Fragment, 0, len(raw))
	for _, f := range raw {
		f = NewFragment(f.Box, f.Text)
		if f.Usable() {
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}
