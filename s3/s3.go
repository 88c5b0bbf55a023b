package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/vegarsti/reader"
)

// Store uploads source files and extracted text to a bucket.
type Store struct {
	Uploader s3manageriface.UploaderAPI
	Bucket   string
}

func New(sess *session.Session, bucket string) *Store {
	return &Store{Uploader: s3manager.NewUploader(sess), Bucket: bucket}
}

func (s *Store) upload(ctx context.Context, key string, contentType string, contentDisposition string, data []byte) error {
	uploadParams := &s3manager.UploadInput{
		Bucket:             aws.String(s.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentDisposition: aws.String(contentDisposition),
		ContentType:        aws.String(contentType),
	}
	if _, err := s.Uploader.UploadWithContext(ctx, uploadParams); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func attachment(filename string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, filename)
}

// UploadPDF stores a PDF for asynchronous text detection and returns its location.
func (s *Store) UploadPDF(ctx context.Context, identifier string, data []byte) (string, string, error) {
	key := identifier + ".pdf"
	if err := s.upload(ctx, key, "application/pdf", attachment(key), data); err != nil {
		return "", "", err
	}
	return s.Bucket, key, nil
}

// UploadImage stores the source image under its checksum and returns the key.
func (s *Store) UploadImage(ctx context.Context, file *reader.File) (string, error) {
	if !file.IsImage() {
		return "", fmt.Errorf("upload image: %s is not an image", file.ContentType)
	}
	key := fmt.Sprintf("%s.%s", file.Checksum, file.ContentType)
	contentType := "image/" + string(file.ContentType)
	if file.ContentType == reader.JPG {
		contentType = "image/jpeg"
	}
	if err := s.upload(ctx, key, contentType, attachment(key), file.Bytes); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Store) UploadText(ctx context.Context, identifier string, text string) error {
	key := identifier + ".txt"
	return s.upload(ctx, key, "text/plain; charset=utf-8", attachment(key), []byte(text))
}

func (s *Store) UploadCSV(ctx context.Context, identifier string, data []byte) error {
	key := identifier + ".csv"
	return s.upload(ctx, key, "text/csv", attachment(key), data)
}

func (s *Store) UploadHTML(ctx context.Context, identifier string, data []byte) error {
	return s.upload(ctx, identifier+".html", "text/html", "inline", data)
}
