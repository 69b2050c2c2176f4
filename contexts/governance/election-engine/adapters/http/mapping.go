package httpadapter

import (
	"strata/contexts/governance/election-engine/domain/entities"
	domainerrors "strata/contexts/governance/election-engine/domain/errors"
	httptransport "strata/contexts/governance/election-engine/transport/http"
)

func domainInputError() error {
	return domainerrors.ErrInvalidElectionInput
}

func mapElection(election entities.Election) httptransport.ElectionResponse {
	resp := httptransport.ElectionResponse{
		ElectionID:         election.ElectionID,
		Title:              election.Title,
		Type:               string(election.Type),
		Status:             string(election.Status),
		CreatedBy:          election.CreatedBy,
		CreatedAt:          election.CreatedAt,
		OpenedAt:           election.OpenedAt,
		ClosedAt:           election.ClosedAt,
		CertifiedAt:        election.CertifiedAt,
		CertifiedBy:        election.CertifiedBy,
		ScheduledCloseDate: election.ScheduledCloseDate,
		NoticeDate:         election.NoticeDate,
		QuorumRequired:     election.QuorumRequired,
		LinkedCaseID:       election.LinkedCaseID,
		LinkedMeetingID:    election.LinkedMeetingID,
		BallotItems:        make([]httptransport.BallotItemResponse, 0, len(election.BallotItems)),
		Ballots:            make([]httptransport.BallotResponse, 0, len(election.Ballots)),
	}
	for _, item := range election.BallotItems {
		itemResp := httptransport.BallotItemResponse{
			ItemID:            item.ItemID,
			Title:             item.Title,
			Description:       item.Description,
			Rationale:         item.Rationale,
			Type:              string(item.Type),
			MaxSelections:     item.MaxSelections,
			RequiredThreshold: item.RequiredThreshold,
			LegalRef:          item.LegalRef,
			FinancialImpact:   item.FinancialImpact,
			Attachments:       item.Attachments,
		}
		for _, candidate := range item.Candidates {
			itemResp.Candidates = append(itemResp.Candidates, httptransport.CandidateResponse{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				Unit:        candidate.Unit,
				Bio:         candidate.Bio,
			})
		}
		resp.BallotItems = append(resp.BallotItems, itemResp)
	}
	for _, ballot := range election.Ballots {
		votes := make(map[string]httptransport.VoteRequest, len(ballot.Votes))
		for itemID, vote := range ballot.Votes {
			votes[itemID] = httptransport.VoteRequest{
				Choice:     string(vote.Choice),
				Selections: vote.Selections,
			}
		}
		resp.Ballots = append(resp.Ballots, httptransport.BallotResponse{
			BallotID:          ballot.BallotID,
			UnitNumber:        ballot.UnitNumber,
			Owner:             ballot.Owner,
			VotingPct:         ballot.VotingPct,
			Method:            string(ballot.Method),
			IsProxy:           ballot.IsProxy,
			ProxyVoterName:    ballot.ProxyVoterName,
			ProxyAuthorizedBy: ballot.ProxyAuthorizedBy,
			RecordedBy:        ballot.RecordedBy,
			RecordedAt:        ballot.RecordedAt,
			Votes:             votes,
			Comment:           ballot.Comment,
		})
	}
	for _, check := range election.ComplianceChecks {
		resp.ComplianceChecks = append(resp.ComplianceChecks, mapComplianceCheck(check))
	}
	for _, event := range election.Timeline {
		resp.Timeline = append(resp.Timeline, httptransport.TimelineEventResponse{
			EventID:     event.EventID,
			Date:        event.Date,
			Actor:       event.Actor,
			Description: event.Description,
		})
	}
	for _, comment := range election.Comments {
		resp.Comments = append(resp.Comments, httptransport.CommentResponse{
			CommentID: comment.CommentID,
			Author:    comment.Author,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
		})
	}
	if election.Resolution != nil {
		resp.Resolution = &httptransport.ResolutionResponse{
			Text:          election.Resolution.Text,
			EffectiveDate: election.Resolution.EffectiveDate,
			RecordedBy:    election.Resolution.RecordedBy,
			RecordedAt:    election.Resolution.RecordedAt,
			LinkedCaseID:  election.Resolution.LinkedCaseID,
		}
	}
	return resp
}

func mapComplianceCheck(check entities.ComplianceCheck) httptransport.ComplianceCheckResponse {
	return httptransport.ComplianceCheckResponse{
		CheckID:     check.CheckID,
		Rule:        check.Rule,
		Requirement: check.Requirement,
		Source:      string(check.Source),
		Status:      string(check.Status),
		AutoChecked: check.AutoChecked,
		Note:        check.Note,
	}
}

func mapResults(results entities.ElectionResults) httptransport.ElectionResultsResponse {
	resp := httptransport.ElectionResultsResponse{
		ElectionID:     results.ElectionID,
		Status:         string(results.Status),
		UnitsEligible:  results.UnitsEligible,
		UnitsBalloted:  results.UnitsBalloted,
		TotalVotedPct:  results.TotalVotedPct,
		QuorumRequired: results.QuorumRequired,
		QuorumMet:      results.QuorumMet,
		Participation: httptransport.ParticipationResponse{
			Paper:      results.Participation.Paper,
			Oral:       results.Participation.Oral,
			Virtual:    results.Participation.Virtual,
			ProxyCount: results.Participation.ProxyCount,
		},
		Warnings: results.Warnings,
	}
	for _, item := range results.Items {
		itemResp := httptransport.ItemResultResponse{
			ItemID:            item.ItemID,
			Title:             item.Title,
			Type:              string(item.Type),
			RequiredThreshold: item.RequiredThreshold,
			ApprovePct:        item.ApprovePct,
			DenyPct:           item.DenyPct,
			AbstainPct:        item.AbstainPct,
			Passed:            item.Passed,
		}
		for _, candidate := range item.Candidates {
			itemResp.Candidates = append(itemResp.Candidates, httptransport.CandidateResultResponse{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				WeightedPct: candidate.WeightedPct,
				BallotCount: candidate.BallotCount,
				Rank:        candidate.Rank,
			})
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
