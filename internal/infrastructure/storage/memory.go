package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	appcashdesk "github.com/hotelops/backend/internal/application/cashdesk"
)

var _ appcashdesk.ReportStorage = (*MemoryObjectStorage)(nil)

// MemoryObject is an object held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. Download links point
// at BaseURL and are not served by anything.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "memory://reports",
		objects: make(map[string]MemoryObject),
	}
}

func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

func (s *MemoryObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	return fmt.Sprintf("%s/%s?expires=%d", s.BaseURL, storageKey, expiresAt.Unix()), expiresAt, nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(storageKey string) (MemoryObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
