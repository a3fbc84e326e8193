package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectGetter struct {
	objects map[string]string
	lastKey string
}

func (f *fakeObjectGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	body, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func fallback(p string) string { return "http://backend/media/" + p }

func TestMediaOpenRejectsTraversal(t *testing.T) {
	svc := NewMediaService(nil, "", fallback, zerolog.Nop())
	for _, p := range []string{"", "../etc/passwd", `uploads\..\..\secret`, "a/../../b"} {
		_, err := svc.Open(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidMediaPath, p)
	}
}

func TestMediaOpenRedirectsWithoutS3(t *testing.T) {
	svc := NewMediaService(nil, "", fallback, zerolog.Nop())
	m, err := svc.Open(context.Background(), `uploads\7\cover.jpg`)
	require.NoError(t, err)
	assert.Nil(t, m.Body)
	assert.Equal(t, "http://backend/media/uploads/7/cover.jpg", m.RedirectURL)
}

func TestMediaOpenFromS3(t *testing.T) {
	getter := &fakeObjectGetter{objects: map[string]string{"uploads/7/cover.jpg": "jpegdata"}}
	svc := NewMediaService(getter, "media", fallback, zerolog.Nop())

	m, err := svc.Open(context.Background(), "/uploads/7/cover.jpg")
	require.NoError(t, err)
	defer m.Body.Close()
	data, _ := io.ReadAll(m.Body)
	assert.Equal(t, "jpegdata", string(data))
	assert.Equal(t, "image/jpeg", m.ContentType)
	assert.Equal(t, int64(8), m.ContentLength)

	_, err = svc.Open(context.Background(), "uploads/missing.mp4")
	assert.True(t, errors.Is(err, ErrMediaNotFound))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeFor("a/b.PNG"))
	assert.Equal(t, "video/quicktime", contentTypeFor("clip.mov"))
	assert.Equal(t, "video/mp4", contentTypeFor("clip.mp4"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("notes.txt"))
}
