package textract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/textract"
	"github.com/aws/aws-sdk-go/service/textract/textractiface"
	"github.com/go-playground/assert/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vegarsti/reader"
)

type fakeClient struct {
	textractiface.TextractAPI
	detect   *textract.DetectDocumentTextOutput
	err      error
	statuses []*textract.GetDocumentTextDetectionOutput
	calls    int
	location *textract.S3Object
}

func (c *fakeClient) DetectDocumentTextWithContext(ctx aws.Context, input *textract.DetectDocumentTextInput, opts ...request.Option) (*textract.DetectDocumentTextOutput, error) {
	return c.detect, c.err
}

func (c *fakeClient) StartDocumentTextDetectionWithContext(ctx aws.Context, input *textract.StartDocumentTextDetectionInput, opts ...request.Option) (*textract.StartDocumentTextDetectionOutput, error) {
	c.location = input.DocumentLocation.S3Object
	return &textract.StartDocumentTextDetectionOutput{JobId: aws.String("job-1")}, c.err
}

func (c *fakeClient) GetDocumentTextDetectionWithContext(ctx aws.Context, input *textract.GetDocumentTextDetectionInput, opts ...request.Option) (*textract.GetDocumentTextDetectionOutput, error) {
	out := c.statuses[c.calls]
	c.calls++
	return out, nil
}

type fakeStore struct {
	identifier string
}

func (s *fakeStore) UploadPDF(ctx context.Context, identifier string, data []byte) (string, string, error) {
	s.identifier = identifier
	return "bucket", identifier + ".pdf", nil
}

func line(text string, left, top, width, height float64) *textract.Block {
	return &textract.Block{
		BlockType: aws.String(textract.BlockTypeLine),
		Text:      aws.String(text),
		Page:      aws.Int64(1),
		Geometry: &textract.Geometry{
			BoundingBox: &textract.BoundingBox{
				Left:   aws.Float64(left),
				Top:    aws.Float64(top),
				Width:  aws.Float64(width),
				Height: aws.Float64(height),
			},
		},
	}
}

func page() *textract.Block {
	return &textract.Block{BlockType: aws.String(textract.BlockTypePage)}
}

func newRecognizer(client *fakeClient) *Recognizer {
	logger, _ := test.NewNullLogger()
	return &Recognizer{Client: client, Store: &fakeStore{}, PollInterval: time.Millisecond, Log: logger}
}

func TestRecognizeImage(t *testing.T) {
	client := &fakeClient{detect: &textract.DetectDocumentTextOutput{
		Blocks: []*textract.Block{
			page(),
			line("Hello", 0.1, 0.25, 0.2, 0.05),
			{BlockType: aws.String(textract.BlockTypeWord), Text: aws.String("Hello")},
			line("  ", 0.1, 0.5, 0.2, 0.05),
		},
	}}
	fragments, err := newRecognizer(client).Recognize(context.Background(), reader.NewPNG([]byte("png")))
	assert.Equal(t, err, nil)
	assert.Equal(t, len(fragments), 1)
	assert.Equal(t, fragments[0].Text, "Hello")
	b := fragments[0].Box
	assert.Equal(t, b.XLeft, 0.1)
	assert.Equal(t, b.YTop, 0.75)
	assert.Equal(t, b.YBottom > 0.6999 && b.YBottom < 0.7001, true)
	assert.Equal(t, b.XRight > 0.2999 && b.XRight < 0.3001, true)
}

func TestRecognizeFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("throttled")}
	_, err := newRecognizer(client).Recognize(context.Background(), reader.NewJPG([]byte("jpg")))
	assert.Equal(t, reader.IsCode(err, reader.ErrorRecognitionFailure), true)
}

func TestRecognizeTypeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		output *textract.DetectDocumentTextOutput
	}{
		{"no output", nil},
		{"block without type", &textract.DetectDocumentTextOutput{Blocks: []*textract.Block{{Text: aws.String("x")}}}},
		{"line without geometry", &textract.DetectDocumentTextOutput{Blocks: []*textract.Block{
			{BlockType: aws.String(textract.BlockTypeLine), Text: aws.String("x")},
		}}},
		{"incomplete bounding box", &textract.DetectDocumentTextOutput{Blocks: []*textract.Block{
			{BlockType: aws.String(textract.BlockTypeLine), Text: aws.String("x"), Geometry: &textract.Geometry{
				BoundingBox: &textract.BoundingBox{Left: aws.Float64(0.1)},
			}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{detect: tt.output}
			_, err := newRecognizer(client).Recognize(context.Background(), reader.NewPNG([]byte("png")))
			assert.Equal(t, reader.IsCode(err, reader.ErrorTypeMismatch), true)
		})
	}
}

func TestRecognizeUnsupported(t *testing.T) {
	_, err := newRecognizer(&fakeClient{}).Recognize(context.Background(), reader.NewFile([]byte("x"), reader.WEBP))
	assert.Equal(t, reader.IsCode(err, reader.ErrorRecognitionFailure), true)
}

func TestRecognizePDF(t *testing.T) {
	second := line("second page", 0.1, 0.1, 0.3, 0.05)
	second.Page = aws.Int64(2)
	client := &fakeClient{statuses: []*textract.GetDocumentTextDetectionOutput{
		{JobStatus: aws.String(textract.JobStatusInProgress)},
		{
			JobStatus: aws.String(textract.JobStatusSucceeded),
			Blocks:    []*textract.Block{page(), line("first", 0.1, 0.1, 0.2, 0.05)},
			NextToken: aws.String("more"),
		},
		{
			JobStatus: aws.String(textract.JobStatusSucceeded),
			Blocks:    []*textract.Block{page(), second},
		},
	}}
	logger, hook := test.NewNullLogger()
	store := &fakeStore{}
	r := &Recognizer{Client: client, Store: store, PollInterval: time.Millisecond, Log: logger}
	file := reader.NewPDF([]byte("%PDF-1.4"))
	fragments, err := r.Recognize(context.Background(), file)
	assert.Equal(t, err, nil)
	assert.Equal(t, len(fragments), 1)
	assert.Equal(t, fragments[0].Text, "first")
	assert.Equal(t, client.calls, 3)
	assert.Equal(t, store.identifier, file.Checksum)
	assert.Equal(t, *client.location.Name, file.Checksum+".pdf")
	assert.Equal(t, hook.LastEntry().Level, logrus.WarnLevel)
	assert.Equal(t, hook.LastEntry().Data["pages"], 2)
}

func TestRecognizePDFJobFailed(t *testing.T) {
	client := &fakeClient{statuses: []*textract.GetDocumentTextDetectionOutput{
		{JobStatus: aws.String(textract.JobStatusFailed), StatusMessage: aws.String("bad pdf")},
	}}
	_, err := newRecognizer(client).Recognize(context.Background(), reader.NewPDF([]byte("%PDF-1.4")))
	assert.Equal(t, reader.IsCode(err, reader.ErrorRecognitionFailure), true)
}

func TestRecognizePDFCancelled(t *testing.T) {
	client := &fakeClient{statuses: []*textract.GetDocumentTextDetectionOutput{
		{JobStatus: aws.String(textract.JobStatusInProgress)},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newRecognizer(client)
	r.PollInterval = time.Hour
	_, err := r.Recognize(ctx, reader.NewPDF([]byte("%PDF-1.4")))
	assert.Equal(t, errors.Is(err, context.Canceled), true)
}
