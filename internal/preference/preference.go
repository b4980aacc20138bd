// Package preference stores per-user UI preferences such as sidebar state
// and the last visited page.
package preference

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

const (
	MaxKeys        = 50
	MaxValueLength = 1024
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

var ErrInvalid = errors.New("invalid preference")

// Store keeps string key/value pairs per user. An empty value deletes the key.
type Store interface {
	Get(ctx context.Context, userID uint) (map[string]string, error)
	Set(ctx context.Context, userID uint, values map[string]string) error
}

// Validate checks keys and values before they reach a store.
func Validate(values map[string]string) error {
	if len(values) > MaxKeys {
		return fmt.Errorf("%w: at most %d keys", ErrInvalid, MaxKeys)
	}
	for k, v := range values {
		if !keyPattern.MatchString(k) {
			return fmt.Errorf("%w: key %q", ErrInvalid, k)
		}
		if len(v) > MaxValueLength {
			return fmt.Errorf("%w: value of %q is longer than %d bytes", ErrInvalid, k, MaxValueLength)
		}
	}
	return nil
}

func split(values map[string]string) (set map[string]string, del []string) {
	set = make(map[string]string, len(values))
	for k, v := range values {
		if v == "" {
			del = append(del, k)
			continue
		}
		set[k] = v
	}
	return set, del
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uint]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uint]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.users[userID]))
	for k, v := range s.users[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, userID uint, values map[string]string) error {
	if err := Validate(values); err != nil {
		return err
	}
	set, del := split(values)

	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.users[userID]
	if prefs == nil {
		prefs = make(map[string]string, len(set))
		s.users[userID] = prefs
	}
	for k, v := range set {
		prefs[k] = v
	}
	for _, k := range del {
		delete(prefs, k)
	}
	return nil
}
