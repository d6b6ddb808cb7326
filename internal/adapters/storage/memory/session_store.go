package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/PabloGalante/shopchat/internal/domain"
)

const (
	DefaultMaxHistory       = 10
	DefaultMaxKnownProducts = 20
	DefaultStaleAfter       = time.Hour
)

// SessionStore owns every conversation's state. History and the product
// cache are bounded, and sessions idle for longer than StaleAfter are evicted
// whenever any session is accessed. There is no background sweeper.
//
// Each session has its own lock; Acquire serializes work on one session
// while different sessions proceed in parallel.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*sessionEntry

	now              func() time.Time
	maxHistory       int
	maxKnownProducts int
	staleAfter       time.Duration
}

type sessionEntry struct {
	mu         sync.Mutex
	session    *domain.Session
	lastActive time.Time
	// holders counts Acquire calls not yet released. Held sessions are
	// never evicted.
	holders int
}

// Option configures a SessionStore.
type Option func(*SessionStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

// WithMaxHistory bounds the number of exchanges kept per session.
func WithMaxHistory(n int) Option {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// WithMaxKnownProducts bounds the product cache of each session.
func WithMaxKnownProducts(n int) Option {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxKnownProducts = n
		}
	}
}

// WithStaleAfter sets the idle duration after which a session is evicted.
func WithStaleAfter(d time.Duration) Option {
	return func(s *SessionStore) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions:         make(map[domain.SessionID]*sessionEntry),
		now:              time.Now,
		maxHistory:       DefaultMaxHistory,
		maxKnownProducts: DefaultMaxKnownProducts,
		staleAfter:       DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the session for id, creating it if needed, and marks
// it active. The returned session is not locked: callers that may race with
// other goroutines on the same id must use Acquire instead.
func (s *SessionStore) GetOrCreate(id domain.SessionID) *domain.Session {
	e := s.touch(id, false)
	e.session.LastActive = e.lastActive
	return e.session
}

// Acquire is GetOrCreate plus exclusive access to the session until release
// is called. release must be called exactly once.
func (s *SessionStore) Acquire(id domain.SessionID) (*domain.Session, func()) {
	e := s.touch(id, true)
	e.mu.Lock()
	e.session.LastActive = s.now()

	var once sync.Once
	release := func() {
		once.Do(func() {
			e.mu.Unlock()

			s.mu.Lock()
			e.holders--
			e.lastActive = s.now()
			s.mu.Unlock()
		})
	}
	return e.session, release
}

// Snapshot returns a copy of an existing session. It counts as an access but
// never creates a session.
func (s *SessionStore) Snapshot(id domain.SessionID) (domain.Session, bool) {
	s.mu.Lock()
	now := s.now()
	s.evictStaleLocked(now, id)
	e, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return domain.Session{}, false
	}
	e.lastActive = now
	e.holders++
	s.mu.Unlock()

	e.mu.Lock()
	out := e.session.Clone()
	e.mu.Unlock()

	s.mu.Lock()
	e.holders--
	s.mu.Unlock()

	return out, true
}

// IDs returns the ids of all live sessions, sorted. Stale sessions are
// evicted first.
func (s *SessionStore) IDs() []domain.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictStaleLocked(s.now(), "")

	out := make([]domain.SessionID, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return len(s.IDs())
}

// AppendExchange adds ex to the session history, dropping the oldest
// exchanges beyond the configured bound.
func (s *SessionStore) AppendExchange(session *domain.Session, ex domain.Exchange) {
	session.Exchanges = append(session.Exchanges, ex)
	if over := len(session.Exchanges) - s.maxHistory; over > 0 {
		session.Exchanges = append([]domain.Exchange(nil), session.Exchanges[over:]...)
	}
}

// CacheProducts upserts products into the session's known products and
// evicts the oldest entries beyond the configured bound.
func (s *SessionStore) CacheProducts(session *domain.Session, products []domain.KnownProduct) {
	for _, p := range products {
		session.KnownProducts.Put(p)
	}
	session.KnownProducts.TrimOldest(s.maxKnownProducts)
}

// touch finds or creates the entry for id, refreshes its activity time and
// sweeps every other session for staleness. The accessed session itself is
// never evicted by its own access.
func (s *SessionStore) touch(id domain.SessionID, hold bool) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictStaleLocked(now, id)

	e, ok := s.sessions[id]
	if !ok {
		e = &sessionEntry{session: domain.NewSession(id, now)}
		s.sessions[id] = e
	}
	e.lastActive = now
	if hold {
		e.holders++
	}
	return e
}

func (s *SessionStore) evictStaleLocked(now time.Time, exclude domain.SessionID) {
	for id, e := range s.sessions {
		if id == exclude || e.holders > 0 {
			continue
		}
		if s.isStale(e, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) isStale(e *sessionEntry, now time.Time) bool {
	return now.Sub(e.lastActive) > s.staleAfter
}
