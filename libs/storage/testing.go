package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
)

type TestObject struct {
	Data    []byte
	Headers http.Header
}

// TestStore is an in-memory Store for tests.
type TestStore struct {
	mu      sync.Mutex
	objects map[string]*TestObject
}

func NewTestStore(objects map[string]*TestObject) *TestStore {
	if objects == nil {
		objects = make(map[string]*TestObject)
	}
	return &TestStore{objects: objects}
}

func (s *TestStore) IDFromName(name string) string {
	return name
}

func (s *TestStore) Put(ctx context.Context, name string, data []byte, contentType string, meta map[string]string) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Length", strconv.Itoa(len(data)))
	headers.Set("Content-Type", contentType)
	for k, v := range meta {
		headers.Set(k, v)
	}
	s.mu.Lock()
	s.objects[name] = &TestObject{Data: append([]byte(nil), data...), Headers: headers}
	s.mu.Unlock()
	return name, nil
}

func (s *TestStore) Get(ctx context.Context, id string) ([]byte, http.Header, error) {
	s.mu.Lock()
	o := s.objects[id]
	s.mu.Unlock()
	if o == nil {
		return nil, nil, ErrNoObject
	}
	return o.Data, o.Headers, nil
}

func (s *TestStore) GetReader(ctx context.Context, id string) (io.ReadCloser, http.Header, error) {
	data, headers, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), headers, nil
}

func (s *TestStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[id]; !ok {
		return ErrNoObject
	}
	delete(s.objects, id)
	return nil
}

// Names returns the stored object names in sorted order.
func (s *TestStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.objects))
	for n := range s.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
