// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quixsi/tablefinder/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	CreateSession(context.Context, *model.Session) (uuid.UUID, error)
	UpdateSession(context.Context, *model.Session) error
	DeleteSession(context.Context, uuid.UUID) error
	ListSessions(context.Context) ([]*model.Session, error)
	GetSessionByID(context.Context, uuid.UUID) (*model.Session, error)
}
