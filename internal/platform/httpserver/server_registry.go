package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registryerrors "strata/contexts/community/ownership-registry/domain/errors"
	registryhttp "strata/contexts/community/ownership-registry/transport/http"
)

func (s *Server) handleListUnits(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListUnitsHandler(r.Context())
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetUnitHandler(r.Context(), r.PathValue("unit_number"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertUnit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}
	var req registryhttp.UpsertUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.UpsertUnitHandler(r.Context(), r.PathValue("unit_number"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUnit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}
	if err := s.registry.Handler.DeleteUnitHandler(r.Context(), r.PathValue("unit_number")); err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrUnitNotFound):
		writeRegistryError(w, http.StatusNotFound, "unit_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidUnitInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
