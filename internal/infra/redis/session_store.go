package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"adaptive-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Plays live in a local map because a session holds its provider; Redis carries a
// liveness marker per play that expires with the TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	plays  map[string]*app.Play
}

type playMarker struct {
	ContentID string `json:"contentId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	StartedAt int64  `json:"startedAt"`
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		plays:  make(map[string]*app.Play),
	}
}

func (s *SessionStore) Put(key string, play *app.Play) {
	s.mu.Lock()
	s.plays[key] = play
	s.mu.Unlock()

	raw, err := json.Marshal(playMarker{
		ContentID: play.ContentID,
		UserID:    play.Learner.ID,
		UserName:  play.Learner.Name,
		StartedAt: time.Now().Unix(),
	})
	if err != nil {
		return
	}
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(key), raw, s.ttl).Err()
}

// Get returns the local play and refreshes its marker.
func (s *SessionStore) Get(key string) (*app.Play, bool) {
	s.mu.RLock()
	play, ok := s.plays[key]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(key), s.ttl).Err()
	}
	return play, ok
}

// Delete drops play and its marker. A replacing play keeps both.
func (s *SessionStore) Delete(key string, play *app.Play) {
	s.mu.Lock()
	current, ok := s.plays[key]
	if !ok || current != play {
		s.mu.Unlock()
		return
	}
	delete(s.plays, key)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(key)).Err()
}

func (s *SessionStore) key(key string) string {
	return "quiz:session:" + key
}
