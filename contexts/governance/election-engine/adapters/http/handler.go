package httpadapter

import (
	"context"
	"log/slog"

	"strata/contexts/governance/election-engine/application/commands"
	"strata/contexts/governance/election-engine/application/queries"
	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
	httptransport "strata/contexts/governance/election-engine/transport/http"
)

type Handler struct {
	Elections  commands.ElectionUseCase
	Queries    queries.ElectionsUseCase
	Results    queries.ResultsUseCase
	Compliance queries.ComplianceUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateElectionHandler(ctx context.Context, actor string, req httptransport.CreateElectionRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CreateElection(ctx, commands.CreateElectionCommand{
		Title:              req.Title,
		Type:               entities.ElectionType(req.Type),
		CreatedBy:          actor,
		ScheduledCloseDate: req.ScheduledCloseDate,
		NoticeDate:         req.NoticeDate,
		QuorumRequired:     req.QuorumRequired,
		LinkedCaseID:       req.LinkedCaseID,
		LinkedMeetingID:    req.LinkedMeetingID,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	election, err := h.Queries.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	elections, err := h.Queries.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(elections))
	for _, election := range elections {
		items = append(items, mapElection(election))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) AddBallotItemHandler(ctx context.Context, electionID, actor string, req httptransport.AddBallotItemRequest) (httptransport.ElectionResponse, error) {
	candidates := make([]commands.CandidateInput, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		candidates = append(candidates, commands.CandidateInput{
			Name: candidate.Name,
			Unit: candidate.Unit,
			Bio:  candidate.Bio,
		})
	}
	election, err := h.Elections.AddBallotItem(ctx, commands.AddBallotItemCommand{
		ElectionID:        electionID,
		Actor:             actor,
		Title:             req.Title,
		Description:       req.Description,
		Rationale:         req.Rationale,
		Type:              entities.BallotItemType(req.Type),
		Candidates:        candidates,
		MaxSelections:     req.MaxSelections,
		RequiredThreshold: req.RequiredThreshold,
		LegalRef:          req.LegalRef,
		FinancialImpact:   req.FinancialImpact,
		Attachments:       req.Attachments,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) RemoveBallotItemHandler(ctx context.Context, electionID, itemID, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.RemoveBallotItem(ctx, electionID, itemID, actor)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) OpenElectionHandler(ctx context.Context, electionID, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.OpenElection(ctx, electionID, actor)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) CloseElectionHandler(ctx context.Context, electionID, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CloseElection(ctx, electionID, actor)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) CertifyElectionHandler(ctx context.Context, electionID, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.CertifyElection(ctx, electionID, actor)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) DeleteElectionHandler(ctx context.Context, electionID, actor string) error {
	return h.Elections.DeleteElection(ctx, electionID, actor)
}

func (h Handler) RecordBallotHandler(
	ctx context.Context,
	electionID string,
	actor string,
	req httptransport.RecordBallotRequest,
	registry ports.RegistrySnapshot,
) (httptransport.ElectionResponse, error) {
	votes := make(map[string]entities.Vote, len(req.Votes))
	for itemID, vote := range req.Votes {
		votes[itemID] = entities.Vote{
			Choice:     entities.VoteChoice(vote.Choice),
			Selections: vote.Selections,
		}
	}
	election, _, err := h.Elections.RecordBallot(ctx, commands.RecordBallotCommand{
		ElectionID:        electionID,
		UnitNumber:        req.UnitNumber,
		Owner:             req.Owner,
		Method:            entities.BallotMethod(req.Method),
		IsProxy:           req.IsProxy,
		ProxyVoterName:    req.ProxyVoterName,
		ProxyAuthorizedBy: req.ProxyAuthorizedBy,
		RecordedBy:        actor,
		Votes:             votes,
		Comment:           req.Comment,
		Registry:          registry,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) RemoveBallotHandler(ctx context.Context, electionID, ballotID, actor string) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.RemoveBallot(ctx, electionID, ballotID, actor)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) SetResolutionHandler(ctx context.Context, electionID, actor string, req httptransport.SetResolutionRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.SetResolution(ctx, commands.SetResolutionCommand{
		ElectionID:    electionID,
		Actor:         actor,
		Text:          req.Text,
		EffectiveDate: req.EffectiveDate,
		LinkedCaseID:  req.LinkedCaseID,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) LinkHandler(ctx context.Context, electionID, actor string, req httptransport.LinkRequest) (httptransport.ElectionResponse, error) {
	var election entities.Election
	var err error
	switch {
	case req.CaseID != "":
		election, err = h.Elections.LinkCase(ctx, electionID, req.CaseID, actor)
	case req.MeetingID != "":
		election, err = h.Elections.LinkMeeting(ctx, electionID, req.MeetingID, actor)
	default:
		return httptransport.ElectionResponse{}, domainInputError()
	}
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) AddCommentHandler(ctx context.Context, electionID, author string, req httptransport.AddCommentRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.AddComment(ctx, electionID, author, req.Body)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) UpdateComplianceCheckHandler(
	ctx context.Context,
	electionID string,
	checkID string,
	actor string,
	req httptransport.UpdateComplianceCheckRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Elections.UpdateComplianceCheck(ctx, commands.UpdateComplianceCheckCommand{
		ElectionID: electionID,
		Actor:      actor,
		CheckID:    checkID,
		Status:     entities.ComplianceStatus(req.Status),
		Note:       req.Note,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID string, registry ports.RegistrySnapshot) (httptransport.ElectionResultsResponse, error) {
	results, err := h.Results.Results(ctx, electionID, registry)
	if err != nil {
		return httptransport.ElectionResultsResponse{}, err
	}
	return mapResults(results), nil
}

func (h Handler) ComplianceChecksHandler(
	ctx context.Context,
	electionID string,
	jurisdiction string,
	documents []ports.GoverningDocument,
) (httptransport.ComplianceChecksResponse, error) {
	checks, err := h.Compliance.ComplianceChecks(ctx, electionID, jurisdiction, documents)
	if err != nil {
		return httptransport.ComplianceChecksResponse{}, err
	}
	resp := httptransport.ComplianceChecksResponse{
		ElectionID:   electionID,
		Jurisdiction: jurisdiction,
	}
	for _, check := range checks {
		resp.Checks = append(resp.Checks, mapComplianceCheck(check))
	}
	return resp, nil
}

// RegenerateComplianceChecksHandler recomputes findings and persists them with
// the board's manual overrides merged back in.
func (h Handler) RegenerateComplianceChecksHandler(
	ctx context.Context,
	electionID string,
	jurisdiction string,
	actor string,
	documents []ports.GoverningDocument,
) (httptransport.ComplianceChecksResponse, error) {
	checks, err := h.Compliance.ComplianceChecks(ctx, electionID, jurisdiction, documents)
	if err != nil {
		return httptransport.ComplianceChecksResponse{}, err
	}
	if _, err := h.Elections.SetComplianceChecks(ctx, electionID, actor, checks); err != nil {
		return httptransport.ComplianceChecksResponse{}, err
	}
	resp := httptransport.ComplianceChecksResponse{
		ElectionID:   electionID,
		Jurisdiction: jurisdiction,
	}
	for _, check := range checks {
		resp.Checks = append(resp.Checks, mapComplianceCheck(check))
	}
	return resp, nil
}
