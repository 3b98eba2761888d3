package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
	"github.com/Vinoisasian/jingshin-leave-public/locales"
	"github.com/Vinoisasian/jingshin-leave-public/worktime"
)

// IPSource reports the client-visible origin address, best effort. A failed
// lookup must return the placeholder rather than an error.
type IPSource interface {
	PublicIP(ctx context.Context) string
}

// Deps wires the collaborators every session shares.
type Deps struct {
	Lookup   directory.LookupFunc
	Approver Approver
	IPSource IPSource
	Schedule worktime.Schedule
	Logger   *zap.Logger

	// Now allows tests to pin the submission timestamp. Defaults to
	// time.Now.
	Now func() time.Time
}

// Manager is the in-memory session registry. Sessions are never persisted;
// they exist for the lifetime of the process and are swept after TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	deps Deps
	ttl  time.Duration
}

// DefaultTTL is how long an untouched session survives before sweeping.
const DefaultTTL = 2 * time.Hour

// NewManager creates a session registry over the given dependencies.
func NewManager(deps Deps, ttl time.Duration) *Manager {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		ttl:      ttl,
	}
}

// Create opens a new session in Landing with a fresh draft. The origin IP
// is resolved in the background; until (and unless) it settles, the
// placeholder address is carried.
func (m *Manager) Create(ctx context.Context, lang locales.Language, userAgent string) *Session {
	if !lang.Valid() {
		lang = locales.Chinese
	}

	s := &Session{
		ID:        uuid.NewString(),
		Lang:      lang,
		CreatedAt: m.deps.Now(),
		state:     StateLanding,
		draft:     leave.NewDraft(),
		resolver:  directory.NewResolver(m.deps.Lookup),
		schedule:  m.deps.Schedule,
		approver:  m.deps.Approver,
		logger:    m.deps.Logger,
		ipAddress: "0.0.0.0",
		userAgent: userAgent,
		baseCtx:   context.Background(),
		now:       m.deps.Now,
	}

	if m.deps.IPSource != nil {
		go func() {
			s.setIPAddress(m.deps.IPSource.PublicIP(s.baseCtx))
		}()
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.deps.Logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("lang", string(lang)))
	return s
}

// Get returns a session by ID, or nil when it does not exist (expired,
// discarded, or never created).
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Discard removes a session, abandoning any in-flight lookup result.
func (m *Manager) Discard(id string) {
	m.mu.Lock()
	s := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if s != nil {
		s.Back()
		m.deps.Logger.Info("session discarded", zap.String("session_id", id))
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions older than the TTL. Call it periodically; it exists
// so abandoned tabs do not pin memory forever.
func (m *Manager) Sweep() int {
	cutoff := m.deps.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps on an interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.deps.Logger.Info("swept expired sessions", zap.Int("count", n))
			}
		}
	}
}
