package models

import (
	"time"
)

type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentError      DocumentStatus = "error"
)

// DocumentSummary describes a document the host uploaded for retrieval.
// The chat only displays it.
type DocumentSummary struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Status  DocumentStatus `json:"status"`
	Path    string         `json:"path,omitempty"`
	AddedAt time.Time      `json:"added_at"`
}

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentProcessing, DocumentCompleted, DocumentError:
		return true
	}
	return false
}
