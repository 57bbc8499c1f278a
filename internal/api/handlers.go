package api

import (
	"sync"

	"github.com/press-analyzer/backend/internal/cycle"
	"github.com/press-analyzer/backend/internal/models"
	"github.com/press-analyzer/backend/internal/session"
	"github.com/press-analyzer/backend/internal/storage"
)

// Handler handles API requests.
type Handler struct {
	store    storage.Store
	sessions *session.Manager
	sim      *cycle.Simulator
	version  string

	mu     sync.RWMutex
	latest *models.SimulationResult // most recent run, feeds the monitor socket
}

// NewHandler creates a new API handler.
func NewHandler(store storage.Store, sessions *session.Manager, sim *cycle.Simulator, version string) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		sim:      sim,
		version:  version,
	}
}

func (h *Handler) setLatestResult(res *models.SimulationResult) {
	h.mu.Lock()
	h.latest = res
	h.mu.Unlock()
}

// LatestResult returns the most recently computed simulation result, if any.
func (h *Handler) LatestResult() *models.SimulationResult {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}
