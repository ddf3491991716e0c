// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/db"
	"github.com/quixsi/tablefinder/internal/model"
)

// NewSessionStore loads sessions from filename if it exists. An empty
// filename keeps the sessions in memory only.
func NewSessionStore(filename string) (*SessionStore, error) {
	store := &SessionStore{
		sessions: make(map[uuid.UUID]*model.Session),
		filename: filename,
	}

	if err := store.loadFromFile(); err != nil {
		return nil, err
	}
	return store, nil
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
	filename string
}

func (s *SessionStore) CreateSession(ctx context.Context, session *model.Session) (uuid.UUID, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "CreateSession")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if _, ok := s.sessions[session.ID]; ok {
		err := errors.New("cannot create session, uuid already exists")
		span.RecordError(err)
		return uuid.Nil, err
	}
	// imported sessions keep their age
	now := time.Now()
	if session.CreatedAt == nil {
		session.CreatedAt = &now
	}
	if session.UpdatedAt == nil {
		session.UpdatedAt = &now
	}

	cp := *session
	s.sessions[session.ID] = &cp
	return session.ID, s.saveToFile(ctx)
}

func (s *SessionStore) UpdateSession(ctx context.Context, session *model.Session) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "UpdateSession")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		span.RecordError(db.ErrSessionNotFound)
		return db.ErrSessionNotFound
	}
	now := time.Now()
	session.UpdatedAt = &now

	cp := *session
	s.sessions[session.ID] = &cp
	return s.saveToFile(ctx)
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "DeleteSession")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return s.saveToFile(ctx)
}

func (s *SessionStore) ListSessions(ctx context.Context) ([]*model.Session, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListSessions")
	defer span.End()

	span.AddEvent("RLock")
	s.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer s.mu.RUnlock()

	res := make([]*model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		cp := *session
		res = append(res, &cp)
	}
	return res, nil
}

func (s *SessionStore) GetSessionByID(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetSessionByID")
	defer span.End()

	span.AddEvent("RLock")
	s.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		span.RecordError(db.ErrSessionNotFound)
		return nil, db.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

// Close flushes the sessions to disk.
func (s *SessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveToFile(context.Background())
}

// saveToFile writes all sessions to the JSON file. Callers hold mu.
func (s *SessionStore) saveToFile(ctx context.Context) error {
	if s.filename == "" {
		return nil
	}
	var span trace.Span
	_, span = tracer.Start(ctx, "SaveToFile")
	defer span.End()

	fileData, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := os.WriteFile(s.filename, fileData, 0600); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *SessionStore) loadFromFile() error {
	if s.filename == "" {
		return nil
	}
	if _, err := os.Stat(s.filename); os.IsNotExist(err) {
		// File does not exist, no sessions to load
		return nil
	}

	fileData, err := os.ReadFile(s.filename)
	if err != nil {
		return err
	}
	if len(fileData) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return json.Unmarshal(fileData, &s.sessions)
}
