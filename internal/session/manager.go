// Package session runs log-file reconstructions in the background and
// serves their sample series.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/press-analyzer/backend/internal/hydraulics"
	"github.com/press-analyzer/backend/internal/models"
	"github.com/press-analyzer/backend/internal/parser"
	"github.com/press-analyzer/backend/internal/recon"
	"github.com/rs/zerolog/log"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion.
const MaxSessions = 10

// SessionKeepAliveWindow is how long an actively viewed session survives
// past the cleanup cutoff.
const SessionKeepAliveWindow = 5 * time.Minute

// FileStatusSetter is the slice of the storage layer the manager needs
// to reflect reconstruction outcomes on file metadata.
type FileStatusSetter interface {
	SetStatus(id string, status models.FileStatus)
}

// Options configures a Manager.
type Options struct {
	// TempDir holds the DuckDB spill files for large series.
	TempDir string
	// AssumedPumpEfficiency is forwarded to the reconstruction pipeline.
	AssumedPumpEfficiency float64
	// LargeSeriesThreshold is the row count above which a series spills
	// to DuckDB instead of staying in memory.
	LargeSeriesThreshold int
	// Files receives file status updates; may be nil.
	Files FileStatusSetter
}

// SessionState holds session metadata plus the series, in memory or in a
// DuckDB-backed store for large files.
type SessionState struct {
	Session      *models.AnalysisSession
	Series       []models.SimulationSample // small series stay in memory
	Store        *SampleStore              // large series spill to DuckDB
	LastAccessed time.Time
}

// Manager handles active reconstruction sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
	opts     Options
}

// NewManager creates a session manager.
func NewManager(opts Options) *Manager {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	if opts.LargeSeriesThreshold <= 0 {
		opts.LargeSeriesThreshold = 50000
	}
	return &Manager{
		sessions: make(map[string]*SessionState),
		opts:     opts,
	}
}

// StartSession begins reconstructing a log file against the given
// cylinder geometry. The work runs in a background goroutine; poll
// GetSession for completion.
func (m *Manager) StartSession(fileID, filePath string, geom hydraulics.Geometry) (*models.AnalysisSession, error) {
	m.evictIfAtCapacity()

	sessionID := uuid.New().String()
	sess := models.NewAnalysisSession(sessionID, fileID)
	sess.Status = models.SessionStatusRunning

	m.mu.Lock()
	m.sessions[sessionID] = &SessionState{
		Session:      sess,
		LastAccessed: time.Now(),
	}
	m.mu.Unlock()

	if m.opts.Files != nil {
		m.opts.Files.SetStatus(fileID, models.FileStatusReconstructing)
	}

	go m.runReconstruction(sessionID, fileID, filePath, geom)

	return sess, nil
}

func (m *Manager) runReconstruction(sessionID, fileID, filePath string, geom hydraulics.Geometry) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("session", short(sessionID)).Interface("panic", r).
				Msg("reconstruction panicked")
			m.failSession(sessionID, fileID, fmt.Sprintf("reconstruction panicked: %v", r))
		}
	}()

	start := time.Now()
	log.Info().Str("session", short(sessionID)).Str("file", filePath).
		Msg("starting reconstruction")

	f, err := os.Open(filePath)
	if err != nil {
		m.failSession(sessionID, fileID, fmt.Sprintf("opening file: %v", err))
		return
	}
	table, err := parser.ReadTable(f)
	f.Close()
	if err != nil {
		m.failSession(sessionID, fileID, fmt.Sprintf("reading file: %v", err))
		return
	}

	pipeline := recon.NewPipeline(geom, m.opts.AssumedPumpEfficiency)
	result, err := pipeline.Reconstruct(table)
	if err != nil {
		m.failSession(sessionID, fileID, err.Error())
		return
	}

	var store *SampleStore
	if len(result.Samples) > m.opts.LargeSeriesThreshold {
		store, err = NewSampleStore(m.opts.TempDir, sessionID)
		if err == nil {
			if err = store.AppendAll(result.Samples); err == nil {
				err = store.Finalize()
			}
		}
		if err != nil {
			if store != nil {
				store.Close()
			}
			m.failSession(sessionID, fileID, fmt.Sprintf("storing series: %v", err))
			return
		}
	}

	elapsed := time.Since(start)
	log.Info().Str("session", short(sessionID)).
		Int("samples", len(result.Samples)).
		Int("skipped_rows", result.SkippedRows).
		Dur("elapsed", elapsed).
		Bool("spilled", store != nil).
		Msg("reconstruction complete")

	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok {
		// Session was cleaned up mid-run.
		if store != nil {
			store.Close()
		}
		return
	}

	if store != nil {
		state.Store = store
	} else {
		state.Series = result.Samples
	}
	state.Session.Status = models.SessionStatusComplete
	state.Session.SampleCount = len(result.Samples)
	state.Session.SkippedRows = result.SkippedRows
	state.Session.ProcessingTimeMs = elapsed.Milliseconds()

	if m.opts.Files != nil {
		m.opts.Files.SetStatus(fileID, models.FileStatusReconstructed)
	}
}

func (m *Manager) failSession(sessionID, fileID, reason string) {
	log.Warn().Str("session", short(sessionID)).Str("reason", reason).
		Msg("reconstruction failed")

	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.sessions[sessionID]; ok {
		state.Session.Status = models.SessionStatusError
		state.Session.Error = reason
	}
	if m.opts.Files != nil {
		m.opts.Files.SetStatus(fileID, models.FileStatusError)
	}
}

// GetSession returns a session by ID.
func (m *Manager) GetSession(id string) (*models.AnalysisSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return state.Session, true
}

// TouchSession marks a session as actively viewed so cleanup spares it.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// GetSeries returns a session's full sample series.
func (m *Manager) GetSeries(ctx context.Context, id string) ([]models.SimulationSample, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || state.Session.Status != models.SessionStatusComplete {
		return nil, false
	}

	if state.Store != nil {
		samples, err := state.Store.All(ctx)
		if err != nil {
			log.Error().Err(err).Str("session", short(id)).Msg("reading series")
			return nil, false
		}
		return samples, true
	}
	return state.Series, true
}

// GetPage returns one page of a session's series plus the total count.
func (m *Manager) GetPage(ctx context.Context, id string, page, pageSize int) ([]models.SimulationSample, int, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || state.Session.Status != models.SessionStatusComplete {
		return nil, 0, false
	}

	start := page * pageSize
	end := start + pageSize

	if state.Store != nil {
		total := state.Store.Len()
		if start >= total {
			return []models.SimulationSample{}, total, true
		}
		if end > total {
			end = total
		}
		samples, err := state.Store.Page(ctx, start, end)
		if err != nil {
			log.Error().Err(err).Str("session", short(id)).Msg("paging series")
			return nil, 0, false
		}
		return samples, total, true
	}

	total := len(state.Series)
	if start >= total {
		return []models.SimulationSample{}, total, true
	}
	if end > total {
		end = total
	}
	return state.Series[start:end], total, true
}

// DeleteSession removes a session and releases its storage.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id)
}

func (m *Manager) deleteLocked(id string) bool {
	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	if state.Store != nil {
		state.Store.Close()
	}
	delete(m.sessions, id)
	return true
}

// CleanupOldSessions removes finished sessions older than maxAge, unless
// they were accessed within the keep-alive window.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAlive := time.Now().Add(-SessionKeepAliveWindow)

	for id, state := range m.sessions {
		if state.Session.Status != models.SessionStatusComplete &&
			state.Session.Status != models.SessionStatusError {
			continue
		}
		if state.LastAccessed.After(keepAlive) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			log.Info().Str("session", short(id)).Msg("cleaning up aged session")
			m.deleteLocked(id)
		}
	}
}

// evictIfAtCapacity drops finished sessions when the map is full.
func (m *Manager) evictIfAtCapacity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	toFree := len(m.sessions) - MaxSessions + 1
	for id, state := range m.sessions {
		if toFree == 0 {
			break
		}
		if state.Session.Status == models.SessionStatusComplete ||
			state.Session.Status == models.SessionStatusError {
			log.Info().Str("session", short(id)).Msg("evicting finished session")
			m.deleteLocked(id)
			toFree--
		}
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
