package model

import "time"

// ChatEvent is one SSE payload emitted while a message exchange is in flight.
type ChatEvent struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id,omitempty"`
	Content   string `json:"content,omitempty"`
	Author    Author `json:"author,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type SessionResponse struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// HistoryGroup is one calendar-day bucket of the session history view.
type HistoryGroup struct {
	Label    string            `json:"label"`
	Sessions []SessionResponse `json:"sessions"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
