package storage

import (
	"aihub-backend/internal/model"
)

// Storage holds the session collection. Sessions are never deleted;
// ListSessions returns them most-recent-first (insertion order, not a sort).
type Storage interface {
	CreateSession(session *model.Session) error
	GetSession(sessionID string) (*model.Session, error)
	UpdateSession(session *model.Session) error
	ListSessions() ([]*model.Session, error)

	AddMessage(sessionID string, message *model.Message) error
	GetMessages(sessionID string) ([]model.Message, error)

	Init() error
	Close() error
}
