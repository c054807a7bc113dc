package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *S3Store {
	t.Helper()
	store, err := NewS3Store(context.Background(), S3Options{
		AccessKey:     "admin",
		SecretKey:     "secret",
		Bucket:        "archive-media",
		Region:        "us-east-1",
		BaseEndpoint:  "http://127.0.0.1:9000",
		PublicBaseURL: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	return store
}

func TestPut_ReturnsPublicURL(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	var gotKey, gotContentType string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = *in.Key
		gotContentType = *in.ContentType
		return &s3.PutObjectOutput{}, nil
	}

	store := newTestStore(t)

	url, err := store.Put(context.Background(), "entries/123-a.png", "image/png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/archive-media/entries/123-a.png", url)
	assert.Equal(t, "entries/123-a.png", gotKey)
	assert.Equal(t, "image/png", gotContentType)
}

func TestPut_DefaultsContentType(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	var gotContentType string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotContentType = *in.ContentType
		return &s3.PutObjectOutput{}, nil
	}

	store := newTestStore(t)

	_, err := store.Put(context.Background(), "entries/123-x", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", gotContentType)
}

func TestPut_Error(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("upload failed")
	}

	store := newTestStore(t)

	_, err := store.Put(context.Background(), "k", "image/png", nil)
	require.Error(t, err)
}

func TestDelete_PassesKey(t *testing.T) {
	origDelete := deleteObject
	defer func() { deleteObject = origDelete }()

	var gotKey string
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		gotKey = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}

	store := newTestStore(t)

	require.NoError(t, store.Delete(context.Background(), "entries/123-a.png"))
	assert.Equal(t, "entries/123-a.png", gotKey)
}

func TestKeyFromURL(t *testing.T) {
	store := newTestStore(t)

	key, ok := store.KeyFromURL("http://127.0.0.1:9000/archive-media/entries/123-a.png")
	assert.True(t, ok)
	assert.Equal(t, "entries/123-a.png", key)

	_, ok = store.KeyFromURL("https://elsewhere.example/archive-media/entries/123-a.png")
	assert.False(t, ok)

	_, ok = store.KeyFromURL("http://127.0.0.1:9000/archive-media/")
	assert.False(t, ok)
}
