package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"strata/contexts/governance/document-registry/domain/entities"
	domainerrors "strata/contexts/governance/document-registry/domain/errors"
	"strata/contexts/governance/document-registry/ports"
)

type DocumentUseCase struct {
	Documents ports.DocumentRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

type SaveDocumentCommand struct {
	DocumentID    string
	Name          string
	Kind          entities.DocumentKind
	Status        entities.DocumentStatus
	EffectiveDate *time.Time
}

// SaveDocument creates or updates a governing-document record. Marking a
// document current is what makes it visible to compliance checks.
func (uc DocumentUseCase) SaveDocument(ctx context.Context, cmd SaveDocumentCommand) (entities.Document, error) {
	if strings.TrimSpace(cmd.Name) == "" || !isValidKind(cmd.Kind) || !isValidStatus(cmd.Status) {
		return entities.Document{}, domainerrors.ErrInvalidDocumentInput
	}

	now := uc.now()
	document := entities.Document{
		DocumentID:    strings.TrimSpace(cmd.DocumentID),
		Name:          strings.TrimSpace(cmd.Name),
		Kind:          cmd.Kind,
		Status:        cmd.Status,
		EffectiveDate: cmd.EffectiveDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if document.DocumentID == "" {
		documentID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.Document{}, err
		}
		document.DocumentID = documentID
	} else if existing, err := uc.Documents.GetDocument(ctx, document.DocumentID); err == nil {
		document.CreatedAt = existing.CreatedAt
	}
	if err := uc.Documents.SaveDocument(ctx, document); err != nil {
		return entities.Document{}, err
	}
	if uc.Logger != nil {
		uc.Logger.Info("governing document saved",
			"event", "document_saved",
			"module", "governance/document-registry",
			"layer", "application",
			"document_id", document.DocumentID,
			"kind", string(document.Kind),
			"status", string(document.Status),
		)
	}
	return document, nil
}

func (uc DocumentUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func isValidKind(k entities.DocumentKind) bool {
	switch k {
	case entities.DocumentKindBylaws,
		entities.DocumentKindCCRs,
		entities.DocumentKindCovenants,
		entities.DocumentKindRules,
		entities.DocumentKindOther:
		return true
	default:
		return false
	}
}

func isValidStatus(s entities.DocumentStatus) bool {
	switch s {
	case entities.DocumentStatusCurrent,
		entities.DocumentStatusSuperseded,
		entities.DocumentStatusDraft:
		return true
	default:
		return false
	}
}
