package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/auth"
)

// Hub keeps the mounted sessions of the BFF, keyed by session id.
type Hub struct {
	loader    *Loader
	subscribe SubscriptionFactory
	logger    *zap.Logger
	idleTTL   time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHub constructs a hub. idleTTL <= 0 disables reaping.
func NewHub(loader *Loader, subscribe SubscriptionFactory, logger *zap.Logger, idleTTL time.Duration) *Hub {
	return &Hub{
		loader:    loader,
		subscribe: subscribe,
		logger:    logger,
		idleTTL:   idleTTL,
		sessions:  make(map[string]*Session),
	}
}

// Mount creates, mounts and registers a session.
func (h *Hub) Mount(ctx context.Context, creds auth.CredentialProvider) (*Session, LoadResult) {
	session := NewSession(h.loader, h.subscribe, h.logger)
	result := session.Mount(ctx, creds)

	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()

	h.logger.Info("dashboard mounted",
		zap.String("session_id", session.ID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("tickets", result.Tickets),
	)
	return session, result
}

// Get returns a registered session and marks it used.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	session, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		session.Touch(time.Now())
	}
	return session, ok
}

// Unmount removes and tears down a session.
func (h *Hub) Unmount(id string) bool {
	h.mu.Lock()
	session, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return false
	}
	session.Unmount()
	h.logger.Info("dashboard unmounted", zap.String("session_id", id))
	return true
}

// Len returns the number of mounted sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ReapIdle unmounts sessions not touched since now-idleTTL.
func (h *Hub) ReapIdle(now time.Time) int {
	if h.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-h.idleTTL)

	h.mu.Lock()
	var stale []*Session
	for id, session := range h.sessions {
		if session.LastSeen().Before(cutoff) {
			stale = append(stale, session)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, session := range stale {
		session.Unmount()
		h.logger.Info("dashboard reaped", zap.String("session_id", session.ID))
	}
	return len(stale)
}

// Close unmounts every session.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for _, session := range sessions {
		session.Unmount()
	}
}
