package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"aihub-backend/internal/model"
	"aihub-backend/internal/storage"
	"aihub-backend/pkg/logger"

	"github.com/google/uuid"
)

// PlaceholderTitle is the title a session carries until its first user
// message derives a real one.
const PlaceholderTitle = "New chat"

const titleWordLimit = 4

// ChatService owns the session collection and the notion of the currently
// active session. Every mutation goes through the service mutex: the title
// derivation rule needs "read message count, then append" to be atomic.
type ChatService struct {
	storage   storage.Storage
	responder Responder
	timeout   time.Duration

	mu               sync.RWMutex
	currentSessionID string
}

func NewChatService(store storage.Storage, responder Responder, timeout time.Duration) *ChatService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChatService{
		storage:   store,
		responder: responder,
		timeout:   timeout,
	}
}

// cloneSession copies a session so callers never hold a pointer aliased
// with storage state. Appends keep mutating the stored session after the
// read lock is gone; a live pointer would race with any later marshal.
func cloneSession(session *model.Session) *model.Session {
	clone := *session
	clone.Messages = make([]model.Message, len(session.Messages))
	copy(clone.Messages, session.Messages)
	return &clone
}

// CreateSession creates a fresh session, makes it current and returns a
// snapshot of it. It never fails against the in-memory backend; the error
// return mirrors the storage contract.
func (s *ChatService) CreateSession(firstMessage string) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		Title:     DeriveTitle(firstMessage),
		Messages:  make([]model.Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.currentSessionID = session.ID

	return cloneSession(session), nil
}

// AppendMessage appends one message to the given session. Unknown sessions
// and whitespace-only content are rejected before any state changes. The
// first user message ever appended to a session overwrites its title.
func (s *ChatService) AppendMessage(sessionID string, content string, author model.Author) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("failed to append message: %w", storage.ErrEmptyContent)
	}
	if !author.Valid() {
		return nil, fmt.Errorf("failed to append message: %w", storage.ErrInvalidAuthor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.storage.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	// Evaluated before the append: only the very first message can derive
	// the title, and only when it comes from the user.
	wasEmpty := len(session.Messages) == 0

	message := &model.Message{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.storage.AddMessage(sessionID, message); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	session.UpdatedAt = time.Now()
	if wasEmpty && author == model.AuthorUser {
		session.Title = DeriveTitle(content)
	}
	if err := s.storage.UpdateSession(session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return message, nil
}

// SelectSession makes the given id current. It always succeeds, even for an
// unknown id; CurrentSession tolerates the dangling reference.
func (s *ChatService) SelectSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSessionID = sessionID
}

// CurrentSession returns the active session, or false when nothing is
// selected or the selection does not resolve.
func (s *ChatService) CurrentSession() (*model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentSessionID == "" {
		return nil, false
	}
	session, err := s.storage.GetSession(s.currentSessionID)
	if err != nil {
		return nil, false
	}
	return cloneSession(session), true
}

func (s *ChatService) GetSession(sessionID string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.storage.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return cloneSession(session), nil
}

func (s *ChatService) GetSessionMessages(sessionID string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, err := s.storage.GetMessages(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	return messages, nil
}

func (s *ChatService) GetAllSessions() ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, err := s.storage.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	snapshots := make([]*model.Session, len(sessions))
	for i, session := range sessions {
		snapshots[i] = cloneSession(session)
	}

	return snapshots, nil
}

// SendMessage appends the user message, asks the Responder for a reply and
// appends that reply to the same session. Events are reported on the first
// channel, failures on the second; both close when the exchange is over.
//
// The session id is captured here, at dispatch time. A reply that arrives
// after the user has switched sessions still lands in the session it was
// generated for, never in whatever is current by then.
func (s *ChatService) SendMessage(sessionID, content string) (<-chan model.ChatEvent, <-chan error) {
	respChan := make(chan model.ChatEvent, 4)
	errChan := make(chan error, 1)

	go func() {
		defer close(respChan)
		defer close(errChan)

		userMsg, err := s.AppendMessage(sessionID, content, model.AuthorUser)
		if err != nil {
			errChan <- err
			return
		}
		respChan <- model.ChatEvent{
			SessionID: sessionID,
			MessageID: userMsg.ID,
			Content:   userMsg.Content,
			Author:    userMsg.Author,
			Timestamp: userMsg.CreatedAt.Unix(),
		}

		// Detached from any request context: the reply belongs to the
		// session even if the caller has gone away.
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		reply, err := s.responder.GenerateReply(ctx, userMsg.Content)
		if err != nil {
			logger.WithField("session_id", sessionID).Errorf("Responder failed: %v", err)
			errChan <- fmt.Errorf("failed to generate reply: %w", err)
			return
		}

		assistantMsg, err := s.AppendMessage(sessionID, reply, model.AuthorAssistant)
		if err != nil {
			errChan <- err
			return
		}
		respChan <- model.ChatEvent{
			SessionID: sessionID,
			MessageID: assistantMsg.ID,
			Content:   assistantMsg.Content,
			Author:    assistantMsg.Author,
			Timestamp: assistantMsg.CreatedAt.Unix(),
		}
	}()

	return respChan, errChan
}

// History groups all sessions by the local calendar day of their creation,
// most recent group first. Today and yesterday get special labels, every
// other day renders as day plus abbreviated month.
func (s *ChatService) History(now time.Time) ([]model.HistoryGroup, error) {
	sessions, err := s.GetAllSessions()
	if err != nil {
		return nil, err
	}

	var groups []model.HistoryGroup
	index := make(map[string]int)

	for _, session := range sessions {
		label := dayLabel(session.CreatedAt, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, model.HistoryGroup{Label: label})
		}
		groups[i].Sessions = append(groups[i].Sessions, model.SessionResponse{
			SessionID:    session.ID,
			Title:        session.Title,
			CreatedAt:    session.CreatedAt,
			UpdatedAt:    session.UpdatedAt,
			MessageCount: len(session.Messages),
		})
	}

	return groups, nil
}

func dayLabel(t, now time.Time) string {
	y, m, d := t.Date()
	switch {
	case sameDay(y, m, d, now):
		return "Today"
	case sameDay(y, m, d, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return t.Format("2 Jan")
	}
}

func sameDay(y int, m time.Month, d int, ref time.Time) bool {
	ry, rm, rd := ref.Date()
	return y == ry && m == rm && d == rd
}

// DeriveTitle builds a session title from message content: the first four
// words, with an ellipsis when the content had more. Empty or
// whitespace-only input yields the placeholder.
func DeriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return PlaceholderTitle
	}
	if len(words) <= titleWordLimit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWordLimit], " ") + "..."
}
