package docstore

import (
	"context"
	"errors"

	"legal-chat/internal/models"
)

var ErrNotFound = errors.New("document not found")

// Store keeps the summaries of documents the host uploaded. The chat reads
// them for display only.
type Store interface {
	// PutDocument inserts or replaces a summary
	PutDocument(ctx context.Context, doc models.DocumentSummary) error

	// GetDocument returns ErrNotFound for unknown IDs
	GetDocument(ctx context.Context, id string) (*models.DocumentSummary, error)

	// ListDocuments returns all summaries, oldest first
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)

	UpdateStatus(ctx context.Context, id string, status models.DocumentStatus) error

	DeleteDocument(ctx context.Context, id string) error

	Close() error
}
