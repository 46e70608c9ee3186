package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig describes an S3 compatible endpoint such as a local MinIO
// server used during development.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Secure    bool
}

// MinIO is a Store backed by an S3 compatible server through minio-go.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinIO(cfg *MinIOConfig) (*MinIO, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &MinIO{client: cli, bucket: cfg.Bucket, prefix: prefix}, nil
}

func (m *MinIO) IDFromName(name string) string {
	return fmt.Sprintf("minio://%s/%s%s", m.bucket, m.prefix, strings.TrimPrefix(name, "/"))
}

func (m *MinIO) key(id string) (string, error) {
	p := "minio://" + m.bucket + "/"
	if !strings.HasPrefix(id, p) {
		return "", fmt.Errorf("storage: id %q is not in bucket %s", id, m.bucket)
	}
	return id[len(p):], nil
}

func (m *MinIO) Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	id := m.IDFromName(name)
	key, err := m.key(id)
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (m *MinIO) Get(ctx context.Context, id string) ([]byte, http.Header, error) {
	return readAll(m.GetReader(ctx, id))
}

func (m *MinIO) GetReader(ctx context.Context, id string) (io.ReadCloser, http.Header, error) {
	key, err := m.key(id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, minioErr(err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, nil, minioErr(err)
	}
	h := http.Header{}
	h.Set("Content-Type", info.ContentType)
	h.Set("Content-Length", strconv.FormatInt(info.Size, 10))
	for k, v := range info.UserMetadata {
		h.Set(k, v)
	}
	return obj, h, nil
}

func (m *MinIO) Delete(ctx context.Context, id string) error {
	key, err := m.key(id)
	if err != nil {
		return err
	}
	return minioErr(m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}))
}

func minioErr(err error) error {
	if err == nil {
		return nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNoObject
	}
	return err
}
