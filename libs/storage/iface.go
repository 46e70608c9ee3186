// Package storage is a small object store abstraction with local
// filesystem, S3 and MinIO backends.
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
)

var ErrNoObject = errors.New("storage: no object")

// Store persists named blobs. Put returns an ID that Get, GetReader and
// Delete accept. For every backend the ID is a deterministic function of the
// name (see IDFromName).
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error)
	Get(ctx context.Context, id string) ([]byte, http.Header, error)
	GetReader(ctx context.Context, id string) (io.ReadCloser, http.Header, error)
	Delete(ctx context.Context, id string) error
	IDFromName(name string) string
}

func readAll(rc io.ReadCloser, headers http.Header, err error) ([]byte, http.Header, error) {
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, err
	}
	return b, headers, nil
}
