package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"legal-chat/internal/logging"
	"legal-chat/internal/models"
)

// SupportedExtensions lists the legal document formats the backend ingests
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
	".rtf":  true,
	".html": true,
	".htm":  true,
	".odt":  true,
}

func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Register records a local file in the catalog. Readable files with a
// supported extension are marked completed, anything else error.
func Register(ctx context.Context, store Store, path string) (models.DocumentSummary, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	doc := models.DocumentSummary{
		ID:      uuid.New().String(),
		Name:    filepath.Base(absPath),
		Status:  models.DocumentCompleted,
		Path:    absPath,
		AddedAt: time.Now(),
	}

	info, statErr := os.Stat(absPath)
	switch {
	case statErr != nil:
		logging.Error("Document %s is not readable: %v", absPath, statErr)
		doc.Status = models.DocumentError
	case info.IsDir():
		logging.Error("Document %s is a directory", absPath)
		doc.Status = models.DocumentError
	case !IsSupported(absPath):
		logging.Error("Document %s has an unsupported type", absPath)
		doc.Status = models.DocumentError
	}

	if err := store.PutDocument(ctx, doc); err != nil {
		return models.DocumentSummary{}, fmt.Errorf("failed to register %s: %w", path, err)
	}

	logging.Info("Registered document %s (%s) as %s", doc.Name, doc.ID, doc.Status)
	return doc, nil
}
