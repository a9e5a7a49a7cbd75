package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbot/models"

	"github.com/go-redis/redis/v8"
)

// SessionTTL bounds how long an idle conversation survives. An expired
// session simply restarts at Idle; committed bookings are unaffected.
const SessionTTL = 30 * time.Minute

const sessionOpTimeout = 2 * time.Second

// SessionStore persists conversation sessions between turns.
type SessionStore interface {
	// Get returns the user's session, or nil when none exists.
	Get(ctx context.Context, userID string) (*models.ConversationSession, error)
	Save(ctx context.Context, session *models.ConversationSession) error
	Delete(ctx context.Context, userID string) error
}

// RedisSessionStore implements SessionStore as JSON blobs with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: SessionTTL}
}

func sessionKey(userID string) string {
	return "chat:sess:" + userID
}

func (s *RedisSessionStore) Get(ctx context.Context, userID string) (*models.ConversationSession, error) {
	ctx, cancel := context.WithTimeout(ctx, sessionOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session for %s: %w", userID, err)
	}

	var session models.ConversationSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		// A corrupt blob should not wedge the user forever.
		return nil, nil
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.ConversationSession) error {
	ctx, cancel := context.WithTimeout(ctx, sessionOpTimeout)
	defer cancel()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session for %s: %w", session.UserID, err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, sessionOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", userID, err)
	}
	return nil
}
