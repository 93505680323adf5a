package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"legal-chat/internal/models"
)

const docPrefix = "doc:"

type BadgerStore struct {
	db *badger.DB
}

func Open(dbPath string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory is used by tests and by hosts that do not want a catalog on disk
func OpenInMemory() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func docKey(id string) []byte {
	return []byte(docPrefix + id)
}

func (s *BadgerStore) PutDocument(ctx context.Context, doc models.DocumentSummary) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}
	if !doc.Status.Valid() {
		return fmt.Errorf("invalid document status %q", doc.Status)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(doc.ID), data)
	})
}

func (s *BadgerStore) GetDocument(ctx context.Context, id string) (*models.DocumentSummary, error) {
	var doc models.DocumentSummary

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve document: %w", err)
	}

	return &doc, nil
}

func (s *BadgerStore) ListDocuments(ctx context.Context) ([]models.DocumentSummary, error) {
	var docs []models.DocumentSummary
	prefix := []byte(docPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var doc models.DocumentSummary
				if err := json.Unmarshal(val, &doc); err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].AddedAt.Equal(docs[j].AddedAt) {
			return docs[i].Name < docs[j].Name
		}
		return docs[i].AddedAt.Before(docs[j].AddedAt)
	})

	return docs, nil
}

func (s *BadgerStore) UpdateStatus(ctx context.Context, id string, status models.DocumentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid document status %q", status)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		var doc models.DocumentSummary
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}

		doc.Status = status
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		return txn.Set(docKey(id), data)
	})
}

func (s *BadgerStore) DeleteDocument(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(docKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
