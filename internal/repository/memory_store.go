package repository

import (
	"context"
	"sync"
	"time"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
)

// MemoryStore is an in-process implementation of the user, session and OTP
// stores, used when Redis is disabled and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User // by id
	byIdent  map[string]string      // email/phone -> id
	sessions map[string]expiring[models.Session]
	otps     map[string]expiring[string]
}

type expiring[T any] struct {
	v   T
	exp time.Time
}

func (e expiring[T]) expired() bool {
	return !e.exp.IsZero() && time.Now().After(e.exp)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		byIdent:  make(map[string]string),
		sessions: make(map[string]expiring[models.Session]),
		otps:     make(map[string]expiring[string]),
	}
}

func (s *MemoryStore) Close() error { return nil }

// --- UserStore ---

func (s *MemoryStore) Add(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	s.byIdent[u.Email] = u.ID
	s.byIdent[u.Phone] = u.ID
	return nil
}

func (s *MemoryStore) Update(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, drepo.ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) FindByIdentifier(_ context.Context, identifier string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byIdent[identifier]
	if !ok {
		return models.User{}, drepo.ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

// --- SessionStore ---

func (s *MemoryStore) Get(_ context.Context, token string) (models.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || e.expired() {
		return models.Session{}, drepo.ErrNotFound
	}
	return e.v, nil
}

func (s *MemoryStore) Put(_ context.Context, sess models.Session, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.sessions[sess.Token] = expiring[models.Session]{v: sess, exp: exp}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// --- OTPStore ---

// MemoryOTPView exposes the MemoryStore as an OTPStore.
type MemoryOTPView struct{ *MemoryStore }

func (s *MemoryStore) OTP() MemoryOTPView { return MemoryOTPView{s} }

func (v MemoryOTPView) Put(_ context.Context, token, code string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	v.mu.Lock()
	v.otps[token] = expiring[string]{v: code, exp: exp}
	v.mu.Unlock()
	return nil
}

func (v MemoryOTPView) Get(_ context.Context, token string) (string, error) {
	v.mu.RLock()
	e, ok := v.otps[token]
	v.mu.RUnlock()
	if !ok || e.expired() {
		return "", drepo.ErrNotFound
	}
	return e.v, nil
}

func (v MemoryOTPView) Delete(_ context.Context, token string) error {
	v.mu.Lock()
	delete(v.otps, token)
	v.mu.Unlock()
	return nil
}

var (
	_ drepo.UserStore    = (*MemoryStore)(nil)
	_ drepo.SessionStore = (*MemoryStore)(nil)
	_ drepo.OTPStore     = MemoryOTPView{}
)
