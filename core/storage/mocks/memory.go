package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"mgzdb/core/storage"
)

// Memory is an in-memory storage.Client for tests that need real round trips.
// Set FailPut to make every PutObject fail.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
	FailPut error
}

// NewMemory creates an empty in-memory client.
func NewMemory() *Memory {
	return &Memory{buckets: map[string]map[string][]byte{}}
}

func (m *Memory) BucketExists(_ context.Context, bucketName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buckets[bucketName]
	return ok, nil
}

func (m *Memory) MakeBucket(_ context.Context, bucketName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucketName]; !ok {
		m.buckets[bucketName] = map[string][]byte{}
	}
	return nil
}

func (m *Memory) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64, _ string) error {
	if m.FailPut != nil {
		return m.FailPut
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucketName]; !ok {
		m.buckets[bucketName] = map[string][]byte{}
	}
	m.buckets[bucketName][objectName] = data
	return nil
}

func (m *Memory) GetObject(_ context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.buckets[bucketName][objectName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Memory) ListObjects(_ context.Context, bucketName, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for key, data := range m.buckets[bucketName] {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Memory) RemoveObject(_ context.Context, bucketName, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets[bucketName], objectName)
	return nil
}

// Keys returns every object key in a bucket, sorted.
func (m *Memory) Keys(bucketName string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.buckets[bucketName]))
	for key := range m.buckets[bucketName] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
