package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	wizarderrors "korskola/internal/wizard/errors"
)

type memoryEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// MemoryStore keeps sessions as encoded snapshots so callers never share a
// draft with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go s.cleanup()

	return s
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return wizarderrors.ErrSessionConflict
	}
	return s.put(sess)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	entry, exists := s.sessions[id]
	if exists && !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		exists = false
	}
	s.mu.Unlock()

	if !exists {
		return nil, wizarderrors.ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sess.ID]
	if !exists || !s.now().Before(entry.expiresAt) {
		return wizarderrors.ErrSessionNotFound
	}
	if entry.version != sess.Version {
		return wizarderrors.ErrSessionConflict
	}

	sess.Version++
	if err := s.put(sess); err != nil {
		sess.Version--
		return err
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// put must be called with mu held.
func (s *MemoryStore) put(sess *Session) error {
	now := s.now()
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.sessions[sess.ID] = memoryEntry{data: data, version: sess.Version, expiresAt: sess.ExpiresAt}
	return nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
