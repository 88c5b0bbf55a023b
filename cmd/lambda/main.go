package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/backend"
	"github.com/vegarsti/reader/config"
	"github.com/vegarsti/reader/html"
)

// request is the JSON body of a request with fragments that were
// recognized earlier. Selected defaults to every fragment.
type request struct {
	Fragments []reader.Fragment `json:"fragments"`
	Selected  []bool            `json:"selected"`
	Strategy  string            `json:"strategy"`
	Rule      string            `json:"rule"`
	Format    string            `json:"format"`
}

type response struct {
	Text      string `json:"text"`
	Fragments int    `json:"fragments"`
	Selected  int    `json:"selected"`
	HTML      string `json:"html,omitempty"`
	TextKey   string `json:"textKey,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// uploader stores the source image and the extracted text.
type uploader interface {
	UploadImage(ctx context.Context, file *reader.File) (string, error)
	UploadText(ctx context.Context, identifier string, text string) error
}

type handler struct {
	recognizer reader.Recognizer
	uploader   uploader
	cfg        *config.Config
	log        logrus.FieldLogger
}

func jsonResponse(status int, v interface{}) *events.APIGatewayProxyResponse {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(fmt.Sprintf(`{"error": "failed to convert to json: %s"}`, err.Error()))
	}
	return &events.APIGatewayProxyResponse{
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: status,
		Body:       string(body) + "\n",
	}
}

func errorf(status int, format string, args ...interface{}) *events.APIGatewayProxyResponse {
	return jsonResponse(status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func (h *handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
	in := request{Format: "text"}
	var file *reader.File
	if req.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return errorf(http.StatusBadRequest, "unable to convert base64 to bytes: %s", err.Error()), nil
		}
		file, err = reader.DetectFile("", b)
		if err != nil || !(file.IsImage() || file.ContentType == reader.PDF) {
			return errorf(http.StatusBadRequest, "request body must be an image or a PDF"), nil
		}
		fragments, err := h.recognizer.Recognize(ctx, file)
		if err != nil {
			var re *reader.RecognitionError
			if errors.As(err, &re) {
				return jsonResponse(http.StatusUnprocessableEntity, errorResponse{Error: re.Error(), Code: string(re.Code)}), nil
			}
			return errorf(http.StatusInternalServerError, "failed to recognize: %s", err.Error()), nil
		}
		in.Fragments = fragments
		in.Format = req.QueryStringParameters["format"]
	} else if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
		return errorf(http.StatusBadRequest, "invalid request body: %s", err.Error()), nil
	}

	strategy := h.cfg.Strategy
	if in.Strategy != "" {
		s, err := reader.ParseStrategy(in.Strategy)
		if err != nil {
			return errorf(http.StatusBadRequest, "%s", err.Error()), nil
		}
		strategy = s
	}
	rule := h.cfg.ParagraphRule
	if in.Rule != "" {
		r, err := reader.ParseParagraphRule(in.Rule)
		if err != nil {
			return errorf(http.StatusBadRequest, "%s", err.Error()), nil
		}
		rule = r
	}

	session := reader.NewSession(file, in.Fragments)
	fragments := session.Fragments()
	if in.Selected == nil {
		session.SelectAll(true)
	} else if len(in.Selected) != len(in.Fragments) {
		return errorf(http.StatusBadRequest, "got %d selection flags for %d fragments", len(in.Selected), len(in.Fragments)), nil
	} else {
		// NewSession drops unusable fragments, so map flags by position among the usable ones
		j := 0
		for i, f := range in.Fragments {
			if !f.Usable() {
				continue
			}
			session.Set(j, in.Selected[i])
			j++
		}
	}

	extractor := reader.NewExtractor(
		reader.WithStrategy(strategy),
		reader.WithParagraphRule(rule),
		reader.WithLogger(h.log.WithField("session", session.ID.String())),
	)
	text, err := session.Text(extractor)
	if err != nil && !errors.Is(err, reader.ErrEmptySelection) {
		return errorf(http.StatusInternalServerError, "failed to extract text: %s", err.Error()), nil
	}

	out := response{
		Text:      text,
		Fragments: len(fragments),
		Selected:  len(reader.Selected(fragments, session.Selected())),
	}
	if in.Format == "html" {
		page, err := html.FromText(text, "", "")
		if err != nil {
			return errorf(http.StatusInternalServerError, "%s", err.Error()), nil
		}
		out.HTML = page
	}
	if file != nil && h.uploader != nil && text != "" {
		if _, err := h.uploader.UploadImage(ctx, file); err != nil {
			h.log.WithError(err).Warn("upload image")
		}
		if err := h.uploader.UploadText(ctx, file.Checksum, text); err != nil {
			h.log.WithError(err).Warn("upload text")
		} else {
			out.TextKey = file.Checksum + ".txt"
		}
	}
	return jsonResponse(http.StatusOK, out), nil
}

func main() {
	log := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.JSONFormatter{})
	b, err := backend.New(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to set up backend")
	}
	defer b.Close()
	h := &handler{recognizer: b, cfg: cfg, log: log}
	if b.Store != nil {
		h.uploader = b.Store
	}
	lambda.Start(h.HandleRequest)
}
