package model

import "time"

// Author identifies which side of a conversation produced a message.
type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

func (a Author) Valid() bool {
	return a == AuthorUser || a == AuthorAssistant
}

// Message is one conversation turn. Once appended it is never mutated.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is one conversation thread. Messages is append-only; the slice
// order is the conversation order.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogModel is one entry of the AI-model catalog.
type CatalogModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Badge       string `json:"badge,omitempty"`
	Recommended bool   `json:"recommended"`
}

// CatalogOption is a filter vocabulary entry (category or provider).
type CatalogOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the demo-mode account returned by the auth shim.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
