package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	ownershipregistry "strata/contexts/community/ownership-registry"
	documentregistry "strata/contexts/governance/document-registry"
	electionengine "strata/contexts/governance/election-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "strata/internal/platform/httpserver/docs"
)

type Server struct {
	mux                 *http.ServeMux
	logger              *slog.Logger
	addr                string
	defaultJurisdiction string
	elections           electionengine.Module
	registry            ownershipregistry.Module
	documents           documentregistry.Module
}

func New(
	elections electionengine.Module,
	registry ownershipregistry.Module,
	documents documentregistry.Module,
	defaultJurisdiction string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if defaultJurisdiction == "" {
		defaultJurisdiction = "default"
	}

	s := &Server{
		mux:                 http.NewServeMux(),
		logger:              logger,
		addr:                addr,
		defaultJurisdiction: defaultJurisdiction,
		elections:           elections,
		registry:            registry,
		documents:           documents,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/governance/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("DELETE /api/governance/v1/elections/{election_id}", s.handleDeleteElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/items", s.handleAddBallotItem)
	s.mux.HandleFunc("DELETE /api/governance/v1/elections/{election_id}/items/{item_id}", s.handleRemoveBallotItem)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/open", s.handleOpenElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/close", s.handleCloseElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/certify", s.handleCertifyElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/ballots", s.handleRecordBallot)
	s.mux.HandleFunc("DELETE /api/governance/v1/elections/{election_id}/ballots/{ballot_id}", s.handleRemoveBallot)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/results", s.handleElectionResults)
	s.mux.HandleFunc("GET /api/governance/v1/elections/{election_id}/compliance", s.handleComplianceChecks)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/compliance/regenerate", s.handleRegenerateCompliance)
	s.mux.HandleFunc("PATCH /api/governance/v1/elections/{election_id}/compliance/{check_id}", s.handleUpdateComplianceCheck)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/resolution", s.handleSetResolution)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/links", s.handleLinkElection)
	s.mux.HandleFunc("POST /api/governance/v1/elections/{election_id}/comments", s.handleAddElectionComment)

	s.mux.HandleFunc("GET /api/community/v1/units", s.handleListUnits)
	s.mux.HandleFunc("GET /api/community/v1/units/{unit_number}", s.handleGetUnit)
	s.mux.HandleFunc("PUT /api/community/v1/units/{unit_number}", s.handleUpsertUnit)
	s.mux.HandleFunc("DELETE /api/community/v1/units/{unit_number}", s.handleDeleteUnit)

	s.mux.HandleFunc("GET /api/governance/v1/documents", s.handleListDocuments)
	s.mux.HandleFunc("POST /api/governance/v1/documents", s.handleSaveDocument)
	s.mux.HandleFunc("GET /api/governance/v1/documents/{document_id}", s.handleGetDocument)
	s.mux.HandleFunc("PUT /api/governance/v1/documents/{document_id}", s.handleSaveDocumentByID)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
