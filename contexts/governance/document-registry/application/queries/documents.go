package queries

import (
	"context"
	"sort"

	"strata/contexts/governance/document-registry/domain/entities"
	"strata/contexts/governance/document-registry/ports"
)

type DocumentsUseCase struct {
	Documents ports.DocumentRepository
}

func (uc DocumentsUseCase) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	documents, err := uc.Documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].Name < documents[j].Name
	})
	return documents, nil
}

// CurrentDocuments returns only documents with status current, the set the
// compliance rule engine checks legal references against.
func (uc DocumentsUseCase) CurrentDocuments(ctx context.Context) ([]entities.Document, error) {
	documents, err := uc.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	current := documents[:0]
	for _, document := range documents {
		if document.Status == entities.DocumentStatusCurrent {
			current = append(current, document)
		}
	}
	return current, nil
}
