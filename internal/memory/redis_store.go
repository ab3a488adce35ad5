package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as one JSON blob under session:<id>
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL and pings it
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *RedisStore) LoadSession(ctx context.Context, sessionID string) (*SessionData, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return emptySession(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}
	if session.Messages == nil {
		session.Messages = []models.ChatMessage{}
	}

	return &session, nil
}

func (r *RedisStore) SaveMessage(ctx context.Context, sessionID, userID string, msg models.ChatMessage) error {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	appendMessage(session, userID, msg)

	return r.saveSession(ctx, session)
}

func (r *RedisStore) ReplaceSession(ctx context.Context, sessionID, userID string, messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return r.ClearSession(ctx, sessionID)
	}
	return r.saveSession(ctx, newSession(sessionID, userID, messages))
}

// saveSession writes the blob and refreshes the TTL
func (r *RedisStore) saveSession(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, r.sessionKey(session.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}

	return nil
}

func (r *RedisStore) GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (r *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *RedisStore) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	exists, err := r.client.Exists(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return exists > 0, nil
}

// UpdateActivity is a no-op for sessions that were never saved
func (r *RedisStore) UpdateActivity(ctx context.Context, sessionID string) error {
	exists, err := r.SessionExists(ctx, sessionID)
	if err != nil || !exists {
		return err
	}

	session, err := r.LoadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	session.Metadata.LastActivity = time.Now()

	return r.saveSession(ctx, session)
}

// Client exposes the connection for other Redis-backed components
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Ping reports whether Redis is reachable
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
