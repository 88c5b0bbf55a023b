//go:build ocr

package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
	readerimage "github.com/vegarsti/reader/image"
)

func (r *Recognizer) Recognize(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	if !file.IsImage() {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("unsupported content type %s", file.ContentType))
	}
	bs, err := readerimage.Downscale(file.Bytes, r.MaxSide)
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, err)
	}
	width, height, err := readerimage.Dimensions(bs)
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, reader.NewRecognitionFailure(name, err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.Language); err != nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("set language: %w", err))
	}
	if err := client.SetImageFromBytes(bs); err != nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("set image: %w", err))
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("bounding boxes: %w", err))
	}
	lines := make([]line, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, line{Rect: b.Box, Text: b.Word, Confidence: b.Confidence})
	}
	r.log().WithFields(logrus.Fields{
		"lines":  len(lines),
		"width":  width,
		"height": height,
	}).Debug("tesseract finished")
	return toFragments(lines, width, height)
}
