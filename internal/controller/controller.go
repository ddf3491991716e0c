// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package controller owns the lookup page state. Transitions are computed
// by Handle; Controller persists them per session and runs the lookups
// they request.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quixsi/tablefinder/internal/db"
	"github.com/quixsi/tablefinder/internal/model"
)

// Lookuper queries the remote guest service.
type Lookuper interface {
	Lookup(ctx context.Context, action model.SearchMode, value string) (*model.ApiResponse, error)
}

func New(store db.SessionStore, client Lookuper) *Controller {
	return &Controller{
		store:  store,
		client: client,
		logger: slog.Default().WithGroup("controller"),
	}
}

type Controller struct {
	store  db.SessionStore
	client Lookuper
	logger *slog.Logger

	// striped by session id, guards load-reduce-save
	locks [64]sync.Mutex
}

// Session returns the session with the given id. Unknown or nil ids get a
// fresh session with a newly generated id.
func (c *Controller) Session(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Controller.Session")
	defer span.End()

	if id != uuid.Nil {
		session, err := c.store.GetSessionByID(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, db.ErrSessionNotFound) {
			span.RecordError(err)
			return nil, fmt.Errorf("could not load session: %w", err)
		}
	}
	return c.create(ctx, uuid.Nil)
}

// Dispatch applies e to the session's state. If the transition requests a
// lookup, the lookup runs without holding the session lock and its
// completion is applied before Dispatch returns.
func (c *Controller) Dispatch(ctx context.Context, id uuid.UUID, e Event) (*model.Session, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Controller.Dispatch", trace.WithAttributes(
		attribute.String("event", fmt.Sprintf("%T", e)),
	))
	defer span.End()

	session, req, err := c.apply(ctx, id, e)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if req == nil {
		return session, nil
	}

	span.SetAttributes(
		attribute.String("lookup.action", req.Action.String()),
		attribute.Int64("lookup.generation", int64(req.Generation)),
	)
	resp, lerr := c.client.Lookup(ctx, req.Action, req.Value)

	session, _, err = c.apply(ctx, session.ID, LookupCompleted{
		Generation: req.Generation,
		Action:     req.Action,
		Response:   resp,
		Err:        lerr,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if session.State.Generation != req.Generation {
		c.logger.InfoContext(ctx, "discarded stale lookup result",
			"session", session.ID, "generation", req.Generation, "current", session.State.Generation)
		return session, nil
	}
	switch reason := session.State.Reason; {
	case reason == model.ErrorReasonNetwork:
		c.logger.WarnContext(ctx, "lookup failed", "session", session.ID, "action", req.Action, "error", lerr)
	case reason != model.ErrorReasonNone:
		c.logger.InfoContext(ctx, "lookup without result", "session", session.ID, "action", req.Action, "reason", reason.String())
	default:
		c.logger.DebugContext(ctx, "lookup succeeded", "session", session.ID, "action", req.Action)
	}
	return session, nil
}

// PruneSessions deletes sessions that have not been updated for maxAge.
func (c *Controller) PruneSessions(ctx context.Context, maxAge time.Duration) (int, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Controller.PruneSessions")
	defer span.End()

	sessions, err := c.store.ListSessions(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	deadline := time.Now().Add(-maxAge)
	pruned := 0
	for _, s := range sessions {
		if s.UpdatedAt != nil && s.UpdatedAt.After(deadline) {
			continue
		}
		if err := c.store.DeleteSession(ctx, s.ID); err != nil {
			span.RecordError(err)
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

func (c *Controller) apply(ctx context.Context, id uuid.UUID, e Event) (*model.Session, *Request, error) {
	if id != uuid.Nil {
		mu := c.lock(id)
		mu.Lock()
		defer mu.Unlock()
	}

	session, err := c.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	next, req := Handle(session.State, e)
	session.State = next
	if err := c.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("could not update session: %w", err)
	}
	return session, req, nil
}

// load expects the caller to hold the session lock.
func (c *Controller) load(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	if id != uuid.Nil {
		session, err := c.store.GetSessionByID(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, db.ErrSessionNotFound) {
			return nil, fmt.Errorf("could not load session: %w", err)
		}
	}
	return c.create(ctx, id)
}

func (c *Controller) create(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	session := &model.Session{ID: id, State: Initial()}
	if _, err := c.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	c.logger.DebugContext(ctx, "created session", "session", session.ID)
	return session, nil
}

func (c *Controller) lock(id uuid.UUID) *sync.Mutex {
	return &c.locks[int(id[15])%len(c.locks)]
}
