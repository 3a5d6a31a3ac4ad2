package game

import (
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/random"
)

var ErrSessionNotFound = errors.New("game session not found")

// base64 of a 16-byte uuid without padding
const sessionIDLength = 22

type StoreOptions struct {
	// MaxSessions caps the number of live sessions. When a new session would
	// exceed it, the least recently used one is dropped. Zero means no cap.
	MaxSessions int
	// IdleTTL is how long a session may go untouched before [Store.Sweep]
	// removes it. Zero disables sweeping.
	IdleTTL time.Duration
	// Random places mines. Defaults to a PCG source.
	Random random.Source
}

// Store keeps sessions in memory, keyed by a random uuid. It is safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     StoreOptions

	genMu sync.Mutex // guards opts.Random
}

func NewStore(opts StoreOptions) *Store {
	if opts.Random == nil {
		opts.Random = random.NewPCG()
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create starts a new session. The returned error is a [*mines.ParamsError]
// when no board can be built from params. Mines are placed before the store
// is locked, so lookups do not wait on board generation.
func (s *Store) Create(params mines.GameParams, now time.Time) (*Session, error) {
	s.genMu.Lock()
	board, err := mines.New(params, s.opts.Random)
	s.genMu.Unlock()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := newSessionID()
	for s.sessions[id] != nil {
		id = newSessionID()
	}

	if s.opts.MaxSessions > 0 {
		for len(s.sessions) >= s.opts.MaxSessions {
			s.evictOldest()
		}
	}

	session := newSession(id, board, now)
	s.sessions[id] = session
	return session, nil
}

func newSessionID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}

func (s *Store) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, session := range s.sessions {
		if t := session.Touched(); oldestID == "" || t.Before(oldest) {
			oldestID, oldest = id, t
		}
	}
	delete(s.sessions, oldestID)
}

// Get looks a session up and marks it as used at now.
func (s *Store) Get(id string, now time.Time) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.touch(now)
	return session, nil
}

// Delete reports whether the session was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions untouched for longer than the idle TTL and returns
// how many were dropped.
func (s *Store) Sweep(now time.Time) int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, session := range s.sessions {
		if now.Sub(session.Touched()) > s.opts.IdleTTL {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
