package imagestore

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
	put     []*s3.PutObjectInput
	body    []string
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.put = append(f.put, in)
	f.body = append(f.body, string(b))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// plainReader hides the Seek method of strings.Reader.
type plainReader struct{ r io.Reader }

func (p plainReader) Read(b []byte) (int, error) { return p.r.Read(b) }

func TestUploadAndDelete(t *testing.T) {
	api := &fakeS3{}
	store := newStore(api, "photos", "https://cdn.example.com/")

	img, err := store.Upload(context.Background(), plainReader{strings.NewReader("jpeg-bytes")}, "image/jpeg")
	require.NoError(t, err)
	require.Len(t, api.put, 1)
	assert.Equal(t, "photos", aws.ToString(api.put[0].Bucket))
	assert.Equal(t, img.PublicID, aws.ToString(api.put[0].Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.put[0].ContentType))
	assert.Equal(t, "jpeg-bytes", api.body[0])
	assert.Equal(t, "https://cdn.example.com/"+img.PublicID, img.URL)

	require.NoError(t, store.Delete(context.Background(), img.PublicID))
	assert.Equal(t, []string{img.PublicID}, api.deleted)
}

func TestErrorsAreWrapped(t *testing.T) {
	cause := errors.New("access denied")
	store := newStore(&fakeS3{err: cause}, "photos", "https://cdn.example.com")

	_, err := store.Upload(context.Background(), strings.NewReader("x"), "")
	require.ErrorIs(t, err, cause)

	err = store.Delete(context.Background(), "abc")
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "imagestore.Delete")
}
