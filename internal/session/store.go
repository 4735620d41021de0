package session

import (
	"sync"
	"time"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/roles"

	"github.com/google/uuid"
)

const sweepInterval = time.Minute

// Store keeps workspaces in memory. Nothing survives a restart. Expired and
// invalidated workspaces are swept in the background until Stop is called.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
	ttl        time.Duration
	now        func() time.Time
	stop       chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		workspaces: make(map[string]*Workspace),
		ttl:        ttl,
		now:        time.Now,
		stop:       make(chan struct{}),
	}

	go s.sweepLoop(sweepEvery(ttl))

	return s
}

func (s *Store) Stop() {
	close(s.stop)
}

func (s *Store) Create(username, token string, isStaff bool) *Workspace {
	ws := newWorkspace(uuid.NewString(), username, token, roles.FromStaffFlag(isStaff), s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[ws.ID] = ws
	return ws
}

// Get returns a live workspace. Expired or invalidated workspaces are removed.
func (s *Store) Get(id string) (*Workspace, bool) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if s.expired(ws, s.now()) {
		s.Delete(id)
		return nil, false
	}
	return ws, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

func (s *Store) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops every expired or invalidated workspace and reports how many went.
func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, ws := range s.workspaces {
		if s.expired(ws, now) {
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed
}

func (s *Store) expired(ws *Workspace, now time.Time) bool {
	return ws.Invalidated() || (s.ttl > 0 && now.Sub(ws.CreatedAt) > s.ttl)
}

func sweepEvery(ttl time.Duration) time.Duration {
	if ttl > 0 && ttl < sweepInterval {
		return ttl
	}
	return sweepInterval
}
