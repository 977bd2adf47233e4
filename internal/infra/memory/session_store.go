package memory

import (
	"sync"

	"adaptive-quiz-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu    sync.RWMutex
	plays map[string]*app.Play
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		plays: make(map[string]*app.Play),
	}
}

func (s *SessionStore) Put(key string, play *app.Play) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays[key] = play
}

func (s *SessionStore) Get(key string) (*app.Play, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	play, ok := s.plays[key]
	return play, ok
}

func (s *SessionStore) Delete(key string, play *app.Play) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plays[key] == play {
		delete(s.plays, key)
	}
}

// Len reports how many plays are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plays)
}
