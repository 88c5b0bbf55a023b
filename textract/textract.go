package textract

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/textract"
	"github.com/aws/aws-sdk-go/service/textract/textractiface"
	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/box"
)

const name = "textract"

// Store uploads a PDF so that Textract can read it asynchronously.
type Store interface {
	UploadPDF(ctx context.Context, identifier string, data []byte) (bucket string, key string, err error)
}

// Recognizer detects lines of text with AWS Textract.
type Recognizer struct {
	Client       textractiface.TextractAPI
	Store        Store
	PollInterval time.Duration
	Log          logrus.FieldLogger
}

func New(sess *session.Session, store Store) *Recognizer {
	return &Recognizer{
		Client:       textract.New(sess),
		Store:        store,
		PollInterval: 500 * time.Millisecond,
		Log:          logrus.StandardLogger(),
	}
}

func (r *Recognizer) Recognize(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	if file.ContentType == reader.PDF {
		return r.recognizePDF(ctx, file)
	}
	switch file.ContentType {
	case reader.JPG, reader.PNG, reader.TIFF:
	default:
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("unsupported content type %s", file.ContentType))
	}
	output, err := r.Client.DetectDocumentTextWithContext(ctx, &textract.DetectDocumentTextInput{
		Document: &textract.Document{Bytes: file.Bytes},
	})
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, err)
	}
	if output == nil {
		return nil, reader.NewTypeMismatchError("empty textract response")
	}
	return r.toFragments(output.Blocks)
}

func (r *Recognizer) recognizePDF(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	if r.Store == nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("no store for PDF input"))
	}
	bucket, key, err := r.Store.UploadPDF(ctx, file.Checksum, file.Bytes)
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("upload PDF: %w", err))
	}
	start, err := r.Client.StartDocumentTextDetectionWithContext(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &textract.DocumentLocation{
			S3Object: &textract.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return nil, reader.NewRecognitionFailure(name, fmt.Errorf("start document text detection: %w", err))
	}
	if start == nil || start.JobId == nil {
		return nil, reader.NewTypeMismatchError("textract job without id")
	}
	r.log().WithField("job", *start.JobId).Debug("waiting for text detection")

	var blocks []*textract.Block
	var token *string
	for {
		output, err := r.Client.GetDocumentTextDetectionWithContext(ctx, &textract.GetDocumentTextDetectionInput{
			JobId:     start.JobId,
			NextToken: token,
		})
		if err != nil {
			return nil, reader.NewRecognitionFailure(name, fmt.Errorf("get document text detection: %w", err))
		}
		if output == nil || output.JobStatus == nil {
			return nil, reader.NewTypeMismatchError("textract job without status")
		}
		switch *output.JobStatus {
		case textract.JobStatusInProgress:
			select {
			case <-ctx.Done():
				return nil, reader.NewRecognitionFailure(name, ctx.Err())
			case <-time.After(r.PollInterval):
			}
			continue
		case textract.JobStatusFailed:
			return nil, reader.NewRecognitionFailure(name, fmt.Errorf("job failed: %s", aws.StringValue(output.StatusMessage)))
		}
		blocks = append(blocks, output.Blocks...)
		if output.NextToken == nil {
			break
		}
		token = output.NextToken
	}
	return r.toFragments(blocks)
}

// toFragments turns the LINE blocks of the first page into fragments.
// Textract measures from the top left corner; fragments from the bottom left.
func (r *Recognizer) toFragments(blocks []*textract.Block) ([]reader.Fragment, error) {
	fragments := make([]reader.Fragment, 0)
	pages := 0
	for _, block := range blocks {
		if block == nil || block.BlockType == nil {
			return nil, reader.NewTypeMismatchError("block without type")
		}
		if *block.BlockType == textract.BlockTypePage {
			pages++
		}
		if *block.BlockType != textract.BlockTypeLine {
			continue
		}
		if block.Page != nil && *block.Page > 1 {
			continue
		}
		text := aws.StringValue(block.Text)
		if text == "" {
			continue
		}
		if block.Geometry == nil || block.Geometry.BoundingBox == nil {
			return nil, reader.NewTypeMismatchError("line without geometry")
		}
		bb := block.Geometry.BoundingBox
		if bb.Left == nil || bb.Top == nil || bb.Width == nil || bb.Height == nil {
			return nil, reader.NewTypeMismatchError("incomplete bounding box")
		}
		f := reader.NewFragment(box.Box{
			XLeft:   *bb.Left,
			XRight:  *bb.Left + *bb.Width,
			YBottom: 1 - (*bb.Top + *bb.Height),
			YTop:    1 - *bb.Top,
		}, text)
		if f.Usable() {
			fragments = append(fragments, f)
		}
	}
	if pages > 1 {
		r.log().WithField("pages", pages).Warn("only the first page is processed")
	}
	return fragments, nil
}

func (r *Recognizer) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
