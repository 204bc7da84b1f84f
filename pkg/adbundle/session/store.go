// Package session keeps analysis tasks and their chat history in memory.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrNoConversation is returned by Ask on a session without a conversation.
var ErrNoConversation = errors.New("session has no conversation")

// Conversation is the remote chat a session sends follow-ups to.
type Conversation interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Message is one turn of a session's history.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is one analysis task.
type Session struct {
	ID        string
	RequestID uuid.UUID
	CreatedAt time.Time

	mu      sync.Mutex
	conv    Conversation
	history []Message
	now     func() time.Time
}

// Append adds a turn to the history.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Message{Role: role, Content: content, At: s.now()})
}

// History returns a copy of the turns so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Ask sends a follow-up question. The question is recorded before the call
// and stays in the history if the call fails.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	if s.conv == nil {
		return "", ErrNoConversation
	}
	s.Append(RoleUser, prompt)

	reply, err := s.conv.Ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	s.Append(RoleModel, reply)
	return reply, nil
}

// Store creates and looks up sessions.
type Store interface {
	Create(conv Conversation) (*Session, error)
	Get(id string) (*Session, bool)
	List() []string
}

// MemoryStore is a process-local Store. Task IDs have the form MMDD-NN.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store using the wall clock.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates an empty store that reads time from now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session), now: now}
}

// Create registers a new session for conv under the next free task ID.
func (m *MemoryStore) Create(conv Conversation) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	id := m.nextID(now)
	s := &Session{
		ID:        id,
		RequestID: uuid.New(),
		CreatedAt: now,
		conv:      conv,
		now:       m.now,
	}
	m.sessions[id] = s
	return s, nil
}

// nextID returns today's prefix with one more than the highest suffix used
// today. Suffixes that are not numbers are ignored.
func (m *MemoryStore) nextID(now time.Time) string {
	prefix := now.Format("0102")
	next := 1
	for id := range m.sessions {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		_, suffix, ok := strings.Cut(id, "-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s-%02d", prefix, next)
}

// Get returns the session with the given ID.
func (m *MemoryStore) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns all task IDs, newest first.
func (m *MemoryStore) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return newerID(ids[i], ids[j]) })
	return ids
}

// newerID orders task IDs by date prefix, then by numeric suffix, newest
// first, so "1015-100" sorts before "1015-99".
func newerID(a, b string) bool {
	pa, sa, _ := strings.Cut(a, "-")
	pb, sb, _ := strings.Cut(b, "-")
	if pa != pb {
		return pa > pb
	}
	na, errA := strconv.Atoi(sa)
	nb, errB := strconv.Atoi(sb)
	if errA != nil || errB != nil {
		return a > b
	}
	return na > nb
}
