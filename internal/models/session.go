package models

// SessionStatus represents the status of a reconstruction session.
type SessionStatus string

const (
	SessionStatusPending  SessionStatus = "pending"
	SessionStatusRunning  SessionStatus = "running"
	SessionStatusComplete SessionStatus = "complete"
	SessionStatusError    SessionStatus = "error"
)

// AnalysisSession tracks one log-file reconstruction from upload to a
// servable sample series. The reconstruction path never produces a
// ResultsSummary; a session's results field is absent by design.
type AnalysisSession struct {
	ID               string        `json:"id"`
	FileID           string        `json:"fileId"`
	Status           SessionStatus `json:"status"`
	SampleCount      int           `json:"sampleCount,omitempty"`
	SkippedRows      int           `json:"skippedRows,omitempty"` // metadata rows discarded by the data-start scan
	ProcessingTimeMs int64         `json:"processingTimeMs,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// NewAnalysisSession creates a new AnalysisSession in pending status.
func NewAnalysisSession(id, fileID string) *AnalysisSession {
	return &AnalysisSession{
		ID:     id,
		FileID: fileID,
		Status: SessionStatusPending,
	}
}
