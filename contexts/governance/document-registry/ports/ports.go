package ports

import (
	"context"
	"time"

	"strata/contexts/governance/document-registry/domain/entities"
)

type DocumentRepository interface {
	SaveDocument(ctx context.Context, document entities.Document) error
	GetDocument(ctx context.Context, documentID string) (entities.Document, error)
	ListDocuments(ctx context.Context) ([]entities.Document, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
