package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sprucehealth/layoutadmin/libs/errors"
)

const fsMetaSuffix = ".meta"

// local is a store that uses the local filesystem.
type local struct {
	path string
}

// NewLocalStore initializes a new local file storage creating the path if necessary.
// Names may contain slashes; intermediate directories are created on Put.
func NewLocalStore(path string) (Store, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed to make path '%s' absolute: %s", path, err)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("storage.NewLocalStore: failed create path '%s': %s", path, err)
	}
	return &local{path: path}, nil
}

func (s *local) IDFromName(name string) string {
	return strings.TrimPrefix(name, "/")
}

func (s *local) pathForID(id string) (string, error) {
	p := filepath.Join(s.path, filepath.FromSlash(strings.TrimPrefix(id, "/")))
	if !strings.HasPrefix(p, s.path+string(filepath.Separator)) {
		return "", fmt.Errorf("storage.Local: invalid id %q", id)
	}
	return p, nil
}

func (s *local) Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	id := s.IDFromName(name)
	fullPath, err := s.pathForID(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0700); err != nil {
		return "", errors.Trace(err)
	}
	if err := writeFileSync(fullPath, bytes.NewReader(data)); err != nil {
		return "", errors.Trace(err)
	}
	m := make(map[string]string, len(meta)+2)
	for k, v := range meta {
		m[k] = v
	}
	m["Content-Length"] = strconv.Itoa(len(data))
	m["Content-Type"] = contentType
	mb, err := json.Marshal(m)
	if err != nil {
		os.Remove(fullPath)
		return "", errors.Trace(err)
	}
	if err := writeFileSync(fullPath+fsMetaSuffix, bytes.NewReader(mb)); err != nil {
		os.Remove(fullPath)
		return "", errors.Trace(err)
	}
	return id, nil
}

func writeFileSync(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (s *local) Get(ctx context.Context, id string) ([]byte, http.Header, error) {
	return readAll(s.GetReader(ctx, id))
}

func localHeader(path string) (http.Header, error) {
	b, err := os.ReadFile(path + fsMetaSuffix)
	if os.IsNotExist(err) {
		return nil, ErrNoObject
	} else if err != nil {
		return nil, err
	}
	var meta map[string]string
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, err
	}
	h := http.Header{}
	for k, v := range meta {
		h.Set(k, v)
	}
	return h, nil
}

func (s *local) GetReader(ctx context.Context, id string) (io.ReadCloser, http.Header, error) {
	path, err := s.pathForID(id)
	if err != nil {
		return nil, nil, err
	}
	h, err := localHeader(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, ErrNoObject
	} else if err != nil {
		return nil, nil, err
	}
	return f, h, nil
}

func (s *local) Delete(ctx context.Context, id string) error {
	path, err := s.pathForID(id)
	if err != nil {
		return err
	}
	os.Remove(path + fsMetaSuffix)
	if err := os.Remove(path); os.IsNotExist(err) {
		return ErrNoObject
	} else if err != nil {
		return err
	}
	return nil
}
