// Package storage defines the notes directory file-system abstraction.
package storage

import "github.com/theAliTajik/Notebook/internal/models"

// Provider is the interface for notes directory file operations.
type Provider interface {
	// List returns metadata for every file directly under the root whose name ends with ext.
	List(ext string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write replaces the file at path (relative to the root) with content.
	Write(path string, content []byte) error
}
