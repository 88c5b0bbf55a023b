package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/assert/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/box"
	"github.com/vegarsti/reader/config"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0Arest")

type fakeRecognizer struct {
	fragments []reader.Fragment
	err       error
}

func (r *fakeRecognizer) Recognize(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	return r.fragments, r.err
}

type fakeUploader struct {
	texts map[string]string
}

func (u *fakeUploader) UploadImage(ctx context.Context, file *reader.File) (string, error) {
	return file.Checksum + ".png", nil
}

func (u *fakeUploader) UploadText(ctx context.Context, identifier string, text string) error {
	u.texts[identifier] = text
	return nil
}

var page = []reader.Fragment{
	{Box: box.Box{XLeft: 0.35, XRight: 0.6, YBottom: 0.8, YTop: 0.85}, Text: "world"},
	{Box: box.Box{XLeft: 0.1, XRight: 0.3, YBottom: 0.8, YTop: 0.85}, Text: "Hello"},
}

func newHandler(r reader.Recognizer, u uploader) *handler {
	logger, _ := test.NewNullLogger()
	return &handler{
		recognizer: r,
		uploader:   u,
		cfg:        &config.Config{Strategy: reader.XYLinear, ParagraphRule: reader.DefaultParagraphRule},
		log:        logger,
	}
}

func decode(t *testing.T, res *events.APIGatewayProxyResponse, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(res.Body), v); err != nil {
		t.Fatalf("decode %q: %v", res.Body, err)
	}
}

func TestFragmentsRequest(t *testing.T) {
	body, _ := json.Marshal(request{Fragments: page})
	res, err := newHandler(nil, nil).HandleRequest(context.Background(), events.APIGatewayProxyRequest{Body: string(body)})
	assert.Equal(t, err, nil)
	assert.Equal(t, res.StatusCode, http.StatusOK)
	var out response
	decode(t, res, &out)
	assert.Equal(t, out.Text, "Hello world")
	assert.Equal(t, out.Fragments, 2)
	assert.Equal(t, out.Selected, 2)
}

func TestFragmentsRequestSelection(t *testing.T) {
	fragments := append([]reader.Fragment{{Text: "   "}}, page...)
	body, _ := json.Marshal(request{Fragments: fragments, Selected: []bool{true, true, false}, Strategy: "original"})
	res, _ := newHandler(nil, nil).HandleRequest(context.Background(), events.APIGatewayProxyRequest{Body: string(body)})
	assert.Equal(t, res.StatusCode, http.StatusOK)
	var out response
	decode(t, res, &out)
	assert.Equal(t, out.Text, "world")
	assert.Equal(t, out.Fragments, 2)
	assert.Equal(t, out.Selected, 1)
}

func TestFragmentsRequestNothingSelected(t *testing.T) {
	body, _ := json.Marshal(request{Fragments: page, Selected: []bool{false, false}, Format: "html"})
	res, _ := newHandler(nil, nil).HandleRequest(context.Background(), events.APIGatewayProxyRequest{Body: string(body)})
	assert.Equal(t, res.StatusCode, http.StatusOK)
	var out response
	decode(t, res, &out)
	assert.Equal(t, out.Text, "")
	assert.Equal(t, out.Selected, 0)
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  events.APIGatewayProxyRequest
	}{
		{"invalid json", events.APIGatewayProxyRequest{Body: "{"}},
		{"unknown strategy", events.APIGatewayProxyRequest{Body: `{"strategy": "diagonal"}`}},
		{"unknown rule", events.APIGatewayProxyRequest{Body: `{"rule": "never"}`}},
		{"selection length", events.APIGatewayProxyRequest{Body: `{"fragments": [{"text": "a"}], "selected": []}`}},
		{"invalid base64", events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true}},
		{"not an image", events.APIGatewayProxyRequest{Body: base64.StdEncoding.EncodeToString([]byte("hello")), IsBase64Encoded: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newHandler(&fakeRecognizer{}, nil).HandleRequest(context.Background(), tt.req)
			assert.Equal(t, err, nil)
			assert.Equal(t, res.StatusCode, http.StatusBadRequest)
		})
	}
}

func TestImageRequest(t *testing.T) {
	u := &fakeUploader{texts: map[string]string{}}
	h := newHandler(&fakeRecognizer{fragments: page}, u)
	req := events.APIGatewayProxyRequest{
		Body:                  base64.StdEncoding.EncodeToString(pngHeader),
		IsBase64Encoded:       true,
		QueryStringParameters: map[string]string{"format": "html"},
	}
	res, err := h.HandleRequest(context.Background(), req)
	assert.Equal(t, err, nil)
	assert.Equal(t, res.StatusCode, http.StatusOK)
	var out response
	decode(t, res, &out)
	assert.Equal(t, out.Text, "Hello world")
	assert.NotEqual(t, out.HTML, "")
	checksum := reader.NewPNG(pngHeader).Checksum
	assert.Equal(t, out.TextKey, checksum+".txt")
	assert.Equal(t, u.texts[checksum], "Hello world")
}

func TestImageRequestRecognitionError(t *testing.T) {
	h := newHandler(&fakeRecognizer{err: reader.NewRecognitionFailure("textract", errors.New("throttled"))}, nil)
	req := events.APIGatewayProxyRequest{
		Body:            base64.StdEncoding.EncodeToString(pngHeader),
		IsBase64Encoded: true,
	}
	res, err := h.HandleRequest(context.Background(), req)
	assert.Equal(t, err, nil)
	assert.Equal(t, res.StatusCode, http.StatusUnprocessableEntity)
	var out errorResponse
	decode(t, res, &out)
	assert.Equal(t, out.Code, string(reader.ErrorRecognitionFailure))
}
