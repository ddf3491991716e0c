// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/db"
	"github.com/quixsi/tablefinder/internal/model"
)

const bucketSession = "session_store"

func NewSessionStore(bdb *bolt.DB) (*SessionStore, error) {
	return &SessionStore{db: bdb}, bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSession))
		return err
	})
}

type SessionStore struct {
	db *bolt.DB
}

func (s *SessionStore) CreateSession(ctx context.Context, session *model.Session) (uuid.UUID, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "CreateSession")
	defer span.End()

	if session.ID == uuid.Nil {
		span.AddEvent("uuid is nil, generate a new id")
		session.ID = uuid.New()
	}
	// imported sessions keep their age
	now := time.Now()
	if session.CreatedAt == nil {
		session.CreatedAt = &now
	}
	if session.UpdatedAt == nil {
		session.UpdatedAt = &now
	}

	j, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, err
	}

	span.AddEvent("Update bucket")
	return session.ID, s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSession)).Put(session.ID[:], j)
	})
}

func (s *SessionStore) UpdateSession(ctx context.Context, session *model.Session) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "UpdateSession")
	defer span.End()

	if session.ID == uuid.Nil {
		err := errors.New("session ID is required for updating")
		span.RecordError(err)
		return err
	}
	now := time.Now()
	session.UpdatedAt = &now

	j, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.AddEvent("Update bucket")
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketSession))
		if bucket.Get(session.ID[:]) == nil {
			return db.ErrSessionNotFound
		}
		return bucket.Put(session.ID[:], j)
	})
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "DeleteSession")
	defer span.End()

	if sessionID == uuid.Nil {
		err := errors.New("session ID is required for deleting")
		span.RecordError(err)
		return err
	}
	span.AddEvent("Update bucket")
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSession)).Delete(sessionID[:])
	})
}

func (s *SessionStore) ListSessions(ctx context.Context) ([]*model.Session, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListSessions")
	defer span.End()

	span.AddEvent("View bucket")
	var sessions []*model.Session
	return sessions, s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSession)).ForEach(func(_, v []byte) error {
			session := &model.Session{}
			if err := json.Unmarshal(v, session); err != nil {
				span.RecordError(err)
				return err
			}
			sessions = append(sessions, session)
			return nil
		})
	})
}

func (s *SessionStore) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetSessionByID")
	defer span.End()

	span.AddEvent("View bucket")
	session := &model.Session{}
	err := s.db.View(func(tx *bolt.Tx) error {
		res := tx.Bucket([]byte(bucketSession)).Get(sessionID[:])
		if res == nil {
			span.RecordError(db.ErrSessionNotFound)
			return db.ErrSessionNotFound
		}
		return json.Unmarshal(res, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
