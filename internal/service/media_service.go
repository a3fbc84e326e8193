package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"coursefinder/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidMediaPath = errors.New("invalid media path")
	ErrMediaNotFound    = errors.New("media not found")
)

// ObjectGetter is the S3 call used to stream media.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Media is an opened media object. Exactly one of Body or RedirectURL is set.
type Media struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	RedirectURL   string
}

type MediaService interface {
	Open(ctx context.Context, mediaPath string) (*Media, error)
}

type mediaService struct {
	s3Client    ObjectGetter
	bucket      string
	fallbackURL func(string) string
	logger      zerolog.Logger
}

// NewMediaService serves media from bucket when s3Client is non-nil,
// otherwise it redirects to fallbackURL(path).
func NewMediaService(s3Client ObjectGetter, bucket string, fallbackURL func(string) string, logger zerolog.Logger) MediaService {
	return &mediaService{s3Client: s3Client, bucket: bucket, fallbackURL: fallbackURL, logger: logger}
}

func (s *mediaService) Open(ctx context.Context, mediaPath string) (*Media, error) {
	key, err := cleanMediaPath(mediaPath)
	if err != nil {
		return nil, err
	}

	if s.s3Client == nil {
		return &Media{RedirectURL: s.fallbackURL(key)}, nil
	}

	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", key, ErrMediaNotFound)
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get media object")
		return nil, fmt.Errorf("get media %s: %w", key, err)
	}

	m := &Media{Body: out.Body, ContentType: aws.ToString(out.ContentType)}
	if out.ContentLength != nil {
		m.ContentLength = *out.ContentLength
	}
	if m.ContentType == "" {
		m.ContentType = contentTypeFor(key)
	}
	return m, nil
}

// cleanMediaPath normalizes separators and rejects paths escaping the media root.
func cleanMediaPath(p string) (string, error) {
	p = model.NormalizeMediaPath(p)
	if p == "" {
		return "", ErrInvalidMediaPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidMediaPath
		}
	}
	return path.Clean(p), nil
}

func contentTypeFor(key string) string {
	switch model.KindOf(path.Ext(key)) {
	case model.MediaImage:
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")
		if ext == "jpg" {
			ext = "jpeg"
		}
		return "image/" + ext
	case model.MediaVideo:
		switch strings.ToLower(path.Ext(key)) {
		case ".mov":
			return "video/quicktime"
		case ".avi":
			return "video/x-msvideo"
		}
		return "video/mp4"
	}
	return "application/octet-stream"
}
