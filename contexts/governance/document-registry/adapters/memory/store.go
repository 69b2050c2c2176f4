package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"strata/contexts/governance/document-registry/domain/entities"
	domainerrors "strata/contexts/governance/document-registry/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	documents map[string]entities.Document
}

func NewStore(seed []entities.Document) *Store {
	documents := make(map[string]entities.Document, len(seed))
	for _, document := range seed {
		documents[document.DocumentID] = document
	}
	return &Store{documents: documents}
}

func (s *Store) SaveDocument(_ context.Context, document entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[strings.TrimSpace(document.DocumentID)] = document
	return nil
}

func (s *Store) GetDocument(_ context.Context, documentID string) (entities.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	document, ok := s.documents[strings.TrimSpace(documentID)]
	if !ok {
		return entities.Document{}, domainerrors.ErrDocumentNotFound
	}
	return document, nil
}

func (s *Store) ListDocuments(_ context.Context) ([]entities.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Document, 0, len(s.documents))
	for _, document := range s.documents {
		out = append(out, document)
	}
	return out, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
