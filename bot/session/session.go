// Package session keeps per-chat conversational state in memory.
// State lives for the process lifetime only; a restart drops all of it.
package session

import "sync"

// Flow marks which linear text-input flow a chat is currently in.
// At most one flow is active per chat at any time.
type Flow int

const (
	FlowNone Flow = iota
	FlowAwaitRate
	FlowAwaitCommission
	FlowAwaitPrice
	FlowAwaitDelivery
)

// Post is a captured broadcast payload: plain text, or a photo with caption.
type Post struct {
	Text    string
	PhotoID string
	Caption string
}

// Session is the mutable per-chat record. Selection fields hold display
// labels, the same form the database stores. Callers must hold the session
// lock while reading or writing any field: telebot runs every handler in its
// own goroutine, so two rapid presses in one chat reach the engine
// concurrently.
type Session struct {
	mu sync.Mutex

	Flow   Flow
	Brands []string
	Sex    string
	Sizes  []string
	// Price carries the first calculator input while Flow is FlowAwaitDelivery.
	Price float64
	Post  *Post
}

// Lock serializes handling for this chat.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-chat lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// AddBrand appends a brand label, keeping insertion order and skipping duplicates.
func (s *Session) AddBrand(label string) {
	s.Brands = appendUnique(s.Brands, label)
}

// AddSize appends a size label, keeping insertion order and skipping duplicates.
func (s *Session) AddSize(label string) {
	s.Sizes = appendUnique(s.Sizes, label)
}

// SelectionComplete reports whether brands, sex and sizes have all been picked.
func (s *Session) SelectionComplete() bool {
	return len(s.Brands) > 0 && s.Sex != "" && len(s.Sizes) > 0
}

// Reset returns every field to its zero value, leaving the lock intact.
// Called whenever a flow completes, is cancelled, or is explicitly cleared
// so that nothing leaks into the next flow.
func (s *Session) Reset() {
	s.Flow = FlowNone
	s.Brands = nil
	s.Sex = ""
	s.Sizes = nil
	s.Price = 0
	s.Post = nil
}

func appendUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

// Store hands out sessions keyed by chat ID, creating them lazily.
// The store lock guards the map only; per-chat serialization is the
// session's own lock.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the session for the chat, creating a fresh one on first use.
func (s *Store) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{}
		s.sessions[chatID] = sess
	}
	return sess
}

// Flow reports the active flow for the chat without creating a session.
func (s *Store) Flow(chatID int64) Flow {
	s.mu.Lock()
	sess, ok := s.sessions[chatID]
	s.mu.Unlock()
	if !ok {
		return FlowNone
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Flow
}

// Len reports how many chats currently hold a session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
