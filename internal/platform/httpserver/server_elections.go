package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	electionerrors "strata/contexts/governance/election-engine/domain/errors"
	electionports "strata/contexts/governance/election-engine/ports"
	electionhttp "strata/contexts/governance/election-engine/transport/http"
)

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	if err := s.elections.Handler.DeleteElectionHandler(r.Context(), r.PathValue("election_id"), actor); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddBallotItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddBallotItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddBallotItemHandler(r.Context(), r.PathValue("election_id"), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveBallotItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.RemoveBallotItemHandler(
		r.Context(),
		r.PathValue("election_id"),
		r.PathValue("item_id"),
		actor,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenElection(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.elections.Handler.OpenElectionHandler)
}

func (s *Server) handleCloseElection(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.elections.Handler.CloseElectionHandler)
}

func (s *Server) handleCertifyElection(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.elections.Handler.CertifyElectionHandler)
}

func (s *Server) handleTransition(
	w http.ResponseWriter,
	r *http.Request,
	transition func(context.Context, string, string) (electionhttp.ElectionResponse, error),
) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := transition(r.Context(), r.PathValue("election_id"), actor)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordBallot(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.RecordBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	registry, err := s.registrySnapshot(r.Context())
	if err != nil {
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	resp, err := s.elections.Handler.RecordBallotHandler(r.Context(), r.PathValue("election_id"), actor, req, registry)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveBallot(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.elections.Handler.RemoveBallotHandler(
		r.Context(),
		r.PathValue("election_id"),
		r.PathValue("ballot_id"),
		actor,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	registry, err := s.registrySnapshot(r.Context())
	if err != nil {
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	resp, err := s.elections.Handler.ResultsHandler(r.Context(), r.PathValue("election_id"), registry)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleComplianceChecks(w http.ResponseWriter, r *http.Request) {
	documents, err := s.governingDocuments(r.Context())
	if err != nil {
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	resp, err := s.elections.Handler.ComplianceChecksHandler(
		r.Context(),
		r.PathValue("election_id"),
		s.resolveJurisdiction(r),
		documents,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegenerateCompliance(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	documents, err := s.governingDocuments(r.Context())
	if err != nil {
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	resp, err := s.elections.Handler.RegenerateComplianceChecksHandler(
		r.Context(),
		r.PathValue("election_id"),
		s.resolveJurisdiction(r),
		actor,
		documents,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateComplianceCheck(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.UpdateComplianceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdateComplianceCheckHandler(
		r.Context(),
		r.PathValue("election_id"),
		r.PathValue("check_id"),
		actor,
		req,
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetResolution(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.SetResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.SetResolutionHandler(r.Context(), r.PathValue("election_id"), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLinkElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.LinkHandler(r.Context(), r.PathValue("election_id"), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddElectionComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	var req electionhttp.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddCommentHandler(r.Context(), r.PathValue("election_id"), actor, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// registrySnapshot pulls the current ownership registry for eligibility and
// weighting. Elections read it at call time and never cache it.
func (s *Server) registrySnapshot(ctx context.Context) (electionports.RegistrySnapshot, error) {
	snapshot, err := s.registry.Handler.SnapshotHandler(ctx)
	if err != nil {
		return electionports.RegistrySnapshot{}, err
	}
	units := make([]electionports.RegistryUnit, 0, len(snapshot.Units))
	for _, unit := range snapshot.Units {
		units = append(units, electionports.RegistryUnit{
			UnitNumber: unit.UnitNumber,
			Owner:      unit.Owner,
			VotingPct:  unit.VotingPct,
			Status:     string(unit.Status),
		})
	}
	return electionports.RegistrySnapshot{Units: units}, nil
}

func (s *Server) governingDocuments(ctx context.Context) ([]electionports.GoverningDocument, error) {
	documents, err := s.documents.Handler.CurrentDocumentsHandler(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]electionports.GoverningDocument, 0, len(documents))
	for _, document := range documents {
		out = append(out, electionports.GoverningDocument{
			Name:   document.Name,
			Kind:   string(document.Kind),
			Status: string(document.Status),
		})
	}
	return out, nil
}

func (s *Server) resolveJurisdiction(r *http.Request) string {
	if jurisdiction := strings.TrimSpace(r.URL.Query().Get("jurisdiction")); jurisdiction != "" {
		return jurisdiction
	}
	return s.defaultJurisdiction
}

func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if actor == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return actor, true
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrElectionNotFound),
		errors.Is(err, electionerrors.ErrBallotItemNotFound),
		errors.Is(err, electionerrors.ErrCandidateNotFound),
		errors.Is(err, electionerrors.ErrBallotNotFound),
		errors.Is(err, electionerrors.ErrComplianceCheckNotFound):
		writeElectionError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrDuplicateBallot):
		writeElectionError(w, http.StatusConflict, "duplicate_ballot", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotOpen):
		writeElectionError(w, http.StatusConflict, "election_not_open", err.Error())
	case errors.Is(err, electionerrors.ErrElectionCertified):
		writeElectionError(w, http.StatusConflict, "election_certified", err.Error())
	case errors.Is(err, electionerrors.ErrPrecondition),
		errors.Is(err, electionerrors.ErrResolutionNotAllowed),
		errors.Is(err, electionerrors.ErrManualOverrideOnAutoCheck):
		writeElectionError(w, http.StatusConflict, "precondition_failed", err.Error())
	case errors.Is(err, electionerrors.ErrMissingProxyAuthorization):
		writeElectionError(w, http.StatusUnprocessableEntity, "missing_proxy_authorization", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidVotePayload),
		errors.Is(err, electionerrors.ErrIneligibleUnit):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
