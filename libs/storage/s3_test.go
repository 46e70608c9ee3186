package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string]*s3.PutObjectInput
	bodies  map[string][]byte
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := *in.Bucket + *in.Key
	f.objects[key] = in
	f.bodies[key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	key := *in.Bucket + *in.Key
	put, ok := f.objects[key]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchKey, "not found", nil), http.StatusNotFound, "req")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(f.bodies[key])),
		ContentType:   put.ContentType,
		ContentLength: aws.Int64(int64(len(f.bodies[key]))),
		Metadata:      put.Metadata,
	}, nil
}

func (f *fakeS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Fake(t *testing.T) {
	ctx := context.Background()
	api := &fakeS3{objects: map[string]*s3.PutObjectInput{}, bodies: map[string][]byte{}}
	st := newS3(api, "us-east-1", "layouts", "archive")

	_, _, err := st.Get(ctx, st.IDFromName("missing"))
	assert.Equal(t, ErrNoObject, err)

	id, err := st.Put(ctx, "acne/3.1.0/intake.json.gz", []byte("foo"), "application/gzip", map[string]string{"X-Pathway": "acne"})
	require.NoError(t, err)
	assert.Equal(t, "s3://us-east-1/layouts/archive/acne/3.1.0/intake.json.gz", id)
	assert.Equal(t, "AES256", *api.objects["layouts/archive/acne/3.1.0/intake.json.gz"].ServerSideEncryption)

	b, h, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "foo", string(b))
	assert.Equal(t, "application/gzip", h.Get("Content-Type"))
	assert.Equal(t, "acne", h.Get("X-Pathway"))

	require.NoError(t, st.Delete(ctx, id))
	_, _, err = st.GetReader(ctx, id)
	assert.Equal(t, ErrNoObject, err)
}

func TestS3(t *testing.T) {
	bucket := os.Getenv("TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("TEST_S3_BUCKET environment variable not set.")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String("us-east-1")})
	if err != nil {
		t.Skip(err.Error())
	}
	if _, err := sess.Config.Credentials.Get(); err != nil {
		t.Skip(err.Error())
	}
	ctx := context.Background()
	st := NewS3(sess, bucket, "/storage-test")
	id, err := st.Put(ctx, "test-1", []byte("foo"), "", nil)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, st.Delete(ctx, id))
	}()
	b, _, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "foo", string(b))
}
