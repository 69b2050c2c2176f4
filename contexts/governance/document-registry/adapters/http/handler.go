package httpadapter

import (
	"context"
	"log/slog"

	"strata/contexts/governance/document-registry/application/commands"
	"strata/contexts/governance/document-registry/application/queries"
	"strata/contexts/governance/document-registry/domain/entities"
	httptransport "strata/contexts/governance/document-registry/transport/http"
)

type Handler struct {
	Documents commands.DocumentUseCase
	Queries   queries.DocumentsUseCase
	Logger    *slog.Logger
}

func (h Handler) SaveDocumentHandler(ctx context.Context, documentID string, req httptransport.SaveDocumentRequest) (httptransport.DocumentResponse, error) {
	document, err := h.Documents.SaveDocument(ctx, commands.SaveDocumentCommand{
		DocumentID:    documentID,
		Name:          req.Name,
		Kind:          entities.DocumentKind(req.Kind),
		Status:        entities.DocumentStatus(req.Status),
		EffectiveDate: req.EffectiveDate,
	})
	if err != nil {
		return httptransport.DocumentResponse{}, err
	}
	return mapDocument(document), nil
}

func (h Handler) GetDocumentHandler(ctx context.Context, documentID string) (httptransport.DocumentResponse, error) {
	document, err := h.Documents.Documents.GetDocument(ctx, documentID)
	if err != nil {
		return httptransport.DocumentResponse{}, err
	}
	return mapDocument(document), nil
}

func (h Handler) ListDocumentsHandler(ctx context.Context) (httptransport.DocumentListResponse, error) {
	documents, err := h.Queries.ListDocuments(ctx)
	if err != nil {
		return httptransport.DocumentListResponse{}, err
	}
	resp := httptransport.DocumentListResponse{
		Items: make([]httptransport.DocumentResponse, 0, len(documents)),
	}
	for _, document := range documents {
		resp.Items = append(resp.Items, mapDocument(document))
	}
	return resp, nil
}

// CurrentDocumentsHandler exposes current documents for host-side composition
// with the election engine's compliance checks.
func (h Handler) CurrentDocumentsHandler(ctx context.Context) ([]entities.Document, error) {
	return h.Queries.CurrentDocuments(ctx)
}

func mapDocument(document entities.Document) httptransport.DocumentResponse {
	return httptransport.DocumentResponse{
		DocumentID:    document.DocumentID,
		Name:          document.Name,
		Kind:          string(document.Kind),
		Status:        string(document.Status),
		EffectiveDate: document.EffectiveDate,
		CreatedAt:     document.CreatedAt,
		UpdatedAt:     document.UpdatedAt,
	}
}
