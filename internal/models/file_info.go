package models

import "time"

// FileStatus tracks what has happened to an uploaded log file.
type FileStatus string

const (
	FileStatusUploaded       FileStatus = "uploaded"
	FileStatusReconstructing FileStatus = "reconstructing"
	FileStatusReconstructed  FileStatus = "reconstructed"
	FileStatusError          FileStatus = "error"
)

// FileInfo is metadata about an uploaded sensor log file.
type FileInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Size       int64      `json:"size"`
	UploadedAt time.Time  `json:"uploadedAt"`
	Status     FileStatus `json:"status"`
}
