package session

import (
	"regexp"
	"slices"
	"sync"
	"time"

	"minibar/internal/model"
	"minibar/internal/schedule"
	"minibar/internal/store"

	"github.com/rs/zerolog"
)

var roomPattern = regexp.MustCompile(`^\d{4}$`)

// ValidateRoom checks that room is exactly four decimal digits, e.g. "0808".
func ValidateRoom(room string) error {
	if !roomPattern.MatchString(room) {
		return model.ErrInvalidRoom
	}
	return nil
}

// Session is a signed-in room with its own order store and schedule editor.
type Session struct {
	Room     string
	Store    store.Store
	Editor   *schedule.Editor
	OpenedAt time.Time

	mu sync.Mutex
}

// Do runs fn while holding the session lock. Requests for the same room that
// read back what they changed go through Do so no other request interleaves.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Registry tracks the sessions of every room that has signed in.
// Sessions outlive sign-out; their state lasts for the life of the process.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	catalog   []model.Product
	listeners []store.Listener
	now       func() time.Time
	base      zerolog.Logger
	logger    zerolog.Logger
}

// NewRegistry creates an empty registry. Every store it creates serves
// catalog and has listeners subscribed in the given order.
func NewRegistry(catalog []model.Product, logger zerolog.Logger, listeners ...store.Listener) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		catalog:   catalog,
		listeners: listeners,
		now:       time.Now,
		base:      logger,
		logger:    logger.With().Str("component", "session-registry").Logger(),
	}
}

// SetClock overrides the time source handed to new sessions.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Open signs a room in, returning its existing session or creating one.
func (r *Registry) Open(room string) (*Session, error) {
	if err := ValidateRoom(room); err != nil {
		r.logger.Debug().Str("room", room).Msg("rejected room number")
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[room]; ok {
		return s, nil
	}

	sessionLogger := r.base.With().Str("room", room).Logger()
	st := store.New(r.catalog, sessionLogger, store.WithClock(r.now), store.WithRoom(room))
	for _, l := range r.listeners {
		st.Subscribe(l)
	}
	editor := schedule.NewEditor(r.now, sessionLogger)
	editor.Load(st)

	s := &Session{
		Room:     room,
		Store:    st,
		Editor:   editor,
		OpenedAt: r.now(),
	}
	r.sessions[room] = s

	r.logger.Info().
		Str("room", room).
		Int("open_sessions", len(r.sessions)).
		Msg("session opened")

	return s, nil
}

// Get returns the session for room, or nil if the room never signed in.
func (r *Registry) Get(room string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[room]
}

// Rooms returns the signed-in rooms in ascending order.
func (r *Registry) Rooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.sessions))
	for room := range r.sessions {
		rooms = append(rooms, room)
	}
	slices.Sort(rooms)
	return rooms
}
