package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	documenterrors "strata/contexts/governance/document-registry/domain/errors"
	documenthttp "strata/contexts/governance/document-registry/transport/http"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.documents.Handler.ListDocumentsHandler(r.Context())
	if err != nil {
		writeDocumentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	resp, err := s.documents.Handler.GetDocumentHandler(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeDocumentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	s.saveDocument(w, r, "")
}

func (s *Server) handleSaveDocumentByID(w http.ResponseWriter, r *http.Request) {
	s.saveDocument(w, r, r.PathValue("document_id"))
}

func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}
	var req documenthttp.SaveDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDocumentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.documents.Handler.SaveDocumentHandler(r.Context(), documentID, req)
	if err != nil {
		writeDocumentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDocumentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, documenterrors.ErrDocumentNotFound):
		writeDocumentError(w, http.StatusNotFound, "document_not_found", err.Error())
	case errors.Is(err, documenterrors.ErrInvalidDocumentInput):
		writeDocumentError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeDocumentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDocumentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, documenthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
