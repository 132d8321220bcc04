package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/edu-archive-api/internal/models"
)

const (
	sessionKeyPrefix      = "archive:session:"
	adminSessionKeyPrefix = "archive:admin-sessions:"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps live admin sessions in Redis.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func adminSessionsKey(adminID string) string {
	return adminSessionKeyPrefix + adminID
}

// Save stores the session until its expiry and indexes it by admin.
func (r *SessionRepository) Save(ctx context.Context, record *models.SessionRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", record.ID)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(record.ID), payload, ttl)
	pipe.SAdd(ctx, adminSessionsKey(record.AdminID), record.ID)
	pipe.Expire(ctx, adminSessionsKey(record.AdminID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a live session.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.SessionRecord, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var record models.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &record, nil
}

// Delete revokes one session. Unknown ids are ignored.
func (r *SessionRepository) Delete(ctx context.Context, adminID, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	if adminID != "" {
		pipe.SRem(ctx, adminSessionsKey(adminID), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByAdmin revokes every session of an admin.
func (r *SessionRepository) DeleteByAdmin(ctx context.Context, adminID string) error {
	ids, err := r.client.SMembers(ctx, adminSessionsKey(adminID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("list admin sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, adminSessionsKey(adminID))
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete admin sessions: %w", err)
	}
	return nil
}
