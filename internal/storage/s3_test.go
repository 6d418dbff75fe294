package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ImageStore_Put(t *testing.T) {
	fake := &fakeS3{}
	store := &S3ImageStore{client: fake, bucket: "shop", publicURL: "https://cdn.example.com"}

	url, err := store.Put(context.Background(), "abc", "Watch.JPG", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/products/abc.jpg", url)
	assert.Equal(t, "shop", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "products/abc.jpg", aws.ToString(fake.in.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "img", fake.body)
}

func TestS3ImageStore_PutError(t *testing.T) {
	store := &S3ImageStore{client: &fakeS3{err: errors.New("denied")}, bucket: "shop", publicURL: "x"}

	_, err := store.Put(context.Background(), "abc", "a.png", "image/png", strings.NewReader(""))
	assert.ErrorContains(t, err, "denied")
}
