// Package models defines the shared value types for the notebook store.
package models

// FileMetadata describes a file in the notes directory.
type FileMetadata struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}
