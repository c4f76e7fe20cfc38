package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/altonotch/dilli/internal/errors"
	"github.com/altonotch/dilli/internal/model"
	"github.com/altonotch/dilli/internal/redis"
)

// SessionStore keeps conversation sessions in Redis as JSON records with an
// active-pointer key per (user, kind). Records expire by TTL; deactivation
// removes the pointer but leaves the record behind.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	GetActive(ctx context.Context, userID string, kind model.FlowKind) (*model.Session, error)
	Create(ctx context.Context, userID string, kind model.FlowKind, step model.Step) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	// Deactivate marks the session inactive and drops the active pointer
	// if it still points at this session.
	Deactivate(ctx context.Context, session *model.Session) error
	// DeactivateAllActive clears any active session of the given kind for
	// the user, so a fresh flow can start cleanly.
	DeactivateAllActive(ctx context.Context, userID string, kind model.FlowKind) error
}

type sessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &sessionStore{client: client, ttl: ttl}
}

func (s *sessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	raw, err := s.client.Get(ctx, redis.SessionKey(id)).Bytes()
	if err == goredis.Nil {
		return nil, apperrors.SessionNotFound()
	}
	if err != nil {
		return nil, apperrors.SessionStore(err)
	}

	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, apperrors.SessionStore(err)
	}
	return &session, nil
}

func (s *sessionStore) GetActive(ctx context.Context, userID string, kind model.FlowKind) (*model.Session, error) {
	id, err := s.client.Get(ctx, redis.ActiveSessionKey(userID, kind)).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.SessionStore(err)
	}

	session, err := s.Get(ctx, id)
	if apperrors.GetCode(err) == apperrors.ErrCodeSessionNotFound {
		// Record expired under the pointer; clean the pointer up.
		s.client.Del(ctx, redis.ActiveSessionKey(userID, kind))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !session.IsActive {
		return nil, nil
	}
	return session, nil
}

func (s *sessionStore) Create(ctx context.Context, userID string, kind model.FlowKind, step model.Step) (*model.Session, error) {
	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Step:      step,
		Data:      model.SessionData{Version: 1},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(ctx, session); err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, redis.ActiveSessionKey(userID, kind), session.ID, s.ttl).Err(); err != nil {
		return nil, apperrors.SessionStore(err)
	}
	return session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	return s.write(ctx, session)
}

func (s *sessionStore) Deactivate(ctx context.Context, session *model.Session) error {
	session.IsActive = false
	if err := s.Save(ctx, session); err != nil {
		return err
	}

	key := redis.ActiveSessionKey(session.UserID, session.Kind)
	current, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil
	}
	if err != nil {
		return apperrors.SessionStore(err)
	}
	if current == session.ID {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return apperrors.SessionStore(err)
		}
	}
	return nil
}

func (s *sessionStore) DeactivateAllActive(ctx context.Context, userID string, kind model.FlowKind) error {
	session, err := s.GetActive(ctx, userID, kind)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return s.Deactivate(ctx, session)
}

func (s *sessionStore) write(ctx context.Context, session *model.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return apperrors.SessionStore(err)
	}
	if err := s.client.Set(ctx, redis.SessionKey(session.ID), raw, s.ttl).Err(); err != nil {
		return apperrors.SessionStore(err)
	}
	return nil
}
