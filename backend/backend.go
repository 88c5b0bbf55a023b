// Package backend builds the recognizer chain and storage that a
// configuration asks for.
package backend

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/sirupsen/logrus"
	"github.com/vegarsti/reader"
	"github.com/vegarsti/reader/config"
	"github.com/vegarsti/reader/dynamodb"
	"github.com/vegarsti/reader/redis"
	"github.com/vegarsti/reader/s3"
	"github.com/vegarsti/reader/tesseract"
	"github.com/vegarsti/reader/textract"
)

// Backend recognizes files as configured. JSON files are read as saved
// fragments and never reach the OCR recognizer or the cache.
type Backend struct {
	OCR   reader.Recognizer
	Store *s3.Store

	closers []func() error
}

// New connects to the services cfg names. AWS sessions are only created
// when a component needs one.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Backend, error) {
	b := &Backend{}
	var sess *session.Session
	awsSession := func() (*session.Session, error) {
		if sess != nil {
			return sess, nil
		}
		var err error
		sess, err = session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
		if err != nil {
			return nil, fmt.Errorf("unable to create session: %w", err)
		}
		return sess, nil
	}

	if cfg.Bucket != "" {
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		b.Store = s3.New(s, cfg.Bucket)
	}

	switch cfg.Recognizer {
	case config.RecognizerTextract:
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		r := textract.New(s, nil)
		if b.Store != nil {
			r.Store = b.Store
		}
		r.PollInterval = cfg.PollInterval
		r.Log = log
		b.OCR = r
	case config.RecognizerTesseract:
		r := tesseract.New(cfg.Language, cfg.MaxImageSide)
		r.Log = log
		b.OCR = r
	default:
		return nil, fmt.Errorf("unknown recognizer %q", cfg.Recognizer)
	}

	var cache reader.Cache
	switch cfg.Cache {
	case config.CacheDynamoDB:
		s, err := awsSession()
		if err != nil {
			return nil, err
		}
		c := dynamodb.New(s, cfg.Table)
		if err := c.CreateTable(ctx); err != nil {
			return nil, err
		}
		cache = c
	case config.CacheRedis:
		c, err := redis.New(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, c.Close)
		cache = c
	}
	if cache != nil {
		b.OCR = &reader.CachedRecognizer{Recognizer: b.OCR, Cache: cache, Log: log}
	}
	log.WithFields(logrus.Fields{
		"recognizer": cfg.Recognizer,
		"cache":      cfg.Cache,
		"bucket":     cfg.Bucket,
	}).Debug("backend ready")
	return b, nil
}

func (b *Backend) Recognize(ctx context.Context, file *reader.File) ([]reader.Fragment, error) {
	if file.ContentType == reader.JSON {
		return reader.JSONRecognizer{}.Recognize(ctx, file)
	}
	return b.OCR.Recognize(ctx, file)
}

func (b *Backend) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
