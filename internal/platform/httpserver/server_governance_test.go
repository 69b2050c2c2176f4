package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ownershipregistry "strata/contexts/community/ownership-registry"
	documentregistry "strata/contexts/governance/document-registry"
	electionengine "strata/contexts/governance/election-engine"
	electionhttp "strata/contexts/governance/election-engine/transport/http"
)

func newTestServer() *Server {
	return New(
		electionengine.NewInMemoryModule(nil, nil),
		ownershipregistry.NewInMemoryModule(nil, nil),
		documentregistry.NewInMemoryModule(nil, nil),
		"CA",
		nil,
		":0",
	)
}

func doJSON(t *testing.T, server *Server, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-User-Id", actor)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestElectionMutationsRequireUserHeader(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/elections", "", map[string]any{
		"title": "Budget",
		"type":  "budget_approval",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestElectionNotFoundMapsTo404(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/governance/v1/elections/no-such-election", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestBallotFlowOverHTTP(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPut, "/api/community/v1/units/101", "manager", map[string]any{
		"owner":      "Avery",
		"voting_pct": 100,
		"status":     "occupied",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("upsert unit failed: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/elections", "board", map[string]any{
		"title":           "2026 operating budget",
		"type":            "budget_approval",
		"quorum_required": 25,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create election failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var created electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	base := "/api/governance/v1/elections/" + created.ElectionID
	rr = doJSON(t, server, http.MethodPost, base+"/items", "board", map[string]any{
		"title": "Approve the budget",
		"type":  "yes_no",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("add item failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var withItem electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &withItem); err != nil {
		t.Fatalf("decode item response: %v", err)
	}
	itemID := withItem.BallotItems[0].ItemID

	if rr = doJSON(t, server, http.MethodPost, base+"/open", "board", nil); rr.Code != http.StatusOK {
		t.Fatalf("open failed: %d body=%s", rr.Code, rr.Body.String())
	}

	ballot := map[string]any{
		"unit_number": "101",
		"method":      "paper",
		"votes":       map[string]any{itemID: map[string]any{"choice": "approve"}},
	}
	if rr = doJSON(t, server, http.MethodPost, base+"/ballots", "manager", ballot); rr.Code != http.StatusCreated {
		t.Fatalf("record ballot failed: %d body=%s", rr.Code, rr.Body.String())
	}
	if rr = doJSON(t, server, http.MethodPost, base+"/ballots", "manager", ballot); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate unit ballot, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, base+"/results", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("results failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var results electionhttp.ElectionResultsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if !results.QuorumMet || results.TotalVotedPct != 100 {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestProxyBallotWithoutAuthorizationMapsTo422(t *testing.T) {
	server := newTestServer()

	doJSON(t, server, http.MethodPut, "/api/community/v1/units/101", "manager", map[string]any{
		"voting_pct": 100,
		"status":     "occupied",
	})
	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/elections", "board", map[string]any{
		"title": "Motion", "type": "meeting_motion",
	})
	var created electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	base := "/api/governance/v1/elections/" + created.ElectionID

	rr = doJSON(t, server, http.MethodPost, base+"/items", "board", map[string]any{
		"title": "Adopt the motion", "type": "yes_no",
	})
	var withItem electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &withItem); err != nil {
		t.Fatalf("decode item response: %v", err)
	}
	doJSON(t, server, http.MethodPost, base+"/open", "board", nil)

	rr = doJSON(t, server, http.MethodPost, base+"/ballots", "manager", map[string]any{
		"unit_number":      "101",
		"method":           "paper",
		"is_proxy":         true,
		"proxy_voter_name": "Morgan",
		"votes": map[string]any{
			withItem.BallotItems[0].ItemID: map[string]any{"choice": "approve"},
		},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unauthorized proxy, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestComplianceJurisdictionQueryParam(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/elections", "board", map[string]any{
		"title": "Board seat", "type": "board_election", "quorum_required": 10,
	})
	var created electionhttp.ElectionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	path := fmt.Sprintf("/api/governance/v1/elections/%s/compliance?jurisdiction=FL", created.ElectionID)
	rr = doJSON(t, server, http.MethodGet, path, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("compliance failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp electionhttp.ComplianceChecksResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode compliance response: %v", err)
	}
	if resp.Jurisdiction != "FL" {
		t.Fatalf("expected FL from query param, got %s", resp.Jurisdiction)
	}
}
