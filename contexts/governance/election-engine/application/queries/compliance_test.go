package queries

import (
	"strings"
	"testing"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

func findCheck(t *testing.T, checks []entities.ComplianceCheck, checkID string) entities.ComplianceCheck {
	t.Helper()
	for _, check := range checks {
		if check.CheckID == checkID {
			return check
		}
	}
	t.Fatalf("check %s not generated", checkID)
	return entities.ComplianceCheck{}
}

func TestResolveRuleSetFallback(t *testing.T) {
	rules := DefaultRuleSets()
	if got := ResolveRuleSet(rules, "ca").Jurisdiction; got != "CA" {
		t.Fatalf("expected case-insensitive CA match, got %s", got)
	}
	if got := ResolveRuleSet(rules, "TX").Jurisdiction; got != "default" {
		t.Fatalf("expected fallback to default for unknown jurisdiction, got %s", got)
	}
}

func TestNoticeLeadTimeCheck(t *testing.T) {
	rules := ResolveRuleSet(DefaultRuleSets(), "CA")
	opened := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	election := entities.Election{Type: entities.ElectionTypeBoardElection}
	check := findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleNoticeLeadTime)
	if check.Status != entities.ComplianceStatusNotChecked || check.AutoChecked {
		t.Fatalf("expected not_checked without notice date, got %+v", check)
	}

	notice := opened.AddDate(0, 0, -45)
	election.NoticeDate = &notice
	election.OpenedAt = &opened
	check = findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleNoticeLeadTime)
	if check.Status != entities.ComplianceStatusPass || !check.AutoChecked {
		t.Fatalf("expected pass at 45 days lead, got %+v", check)
	}

	short := opened.AddDate(0, 0, -5)
	election.NoticeDate = &short
	check = findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleNoticeLeadTime)
	if check.Status != entities.ComplianceStatusFail {
		t.Fatalf("expected fail at 5 days lead against 30 day minimum, got %+v", check)
	}
}

func TestQuorumFloorCheck(t *testing.T) {
	rules := ResolveRuleSet(DefaultRuleSets(), "CA")

	election := entities.Election{Type: entities.ElectionTypeBoardElection, QuorumRequired: 10}
	check := findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleQuorumFloor)
	if check.Status != entities.ComplianceStatusWarning {
		t.Fatalf("expected warning for quorum below statutory floor, got %+v", check)
	}

	election.QuorumRequired = 30
	check = findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleQuorumFloor)
	if check.Status != entities.ComplianceStatusPass {
		t.Fatalf("expected pass at quorum above floor, got %+v", check)
	}

	// No floor configured for this type: the check is not emitted at all.
	election.Type = entities.ElectionTypeMeetingMotion
	for _, check := range GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}) {
		if check.CheckID == RuleQuorumFloor {
			t.Fatalf("quorum floor check emitted without a configured floor")
		}
	}
}

func TestLegalRefCheck(t *testing.T) {
	rules := ResolveRuleSet(DefaultRuleSets(), "default")
	election := entities.Election{
		Type: entities.ElectionTypeBylawAmendment,
		BallotItems: []entities.BallotItem{{
			ItemID:   "item-1",
			Title:    "Amend Bylaw 4.2",
			Type:     entities.BallotItemTypeYesNo,
			LegalRef: "Bylaws Article 4, Section 2",
		}},
	}

	checks := GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules})
	check := findCheck(t, checks, RuleLegalRefOnFile)
	if check.Status != entities.ComplianceStatusWarning || !strings.Contains(check.Note, "Amend Bylaw 4.2") {
		t.Fatalf("expected warning naming the unverified item, got %+v", check)
	}

	checks = GenerateComplianceChecks(ComplianceContext{
		Election: election,
		Rules:    rules,
		Documents: []ports.GoverningDocument{
			{Name: "Association Bylaws", Kind: "bylaws", Status: "current"},
		},
	})
	if check := findCheck(t, checks, RuleLegalRefOnFile); check.Status != entities.ComplianceStatusPass {
		t.Fatalf("expected pass with current bylaws on file, got %+v", check)
	}
}

func TestItemTypePlausibilityCheck(t *testing.T) {
	rules := ResolveRuleSet(DefaultRuleSets(), "default")
	election := entities.Election{
		Type: entities.ElectionTypeBoardElection,
		BallotItems: []entities.BallotItem{{
			ItemID: "item-1",
			Title:  "Confirm the board slate",
			Type:   entities.BallotItemTypeYesNo,
		}},
	}
	check := findCheck(t, GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), RuleItemTypePlausibility)
	if check.Status != entities.ComplianceStatusWarning {
		t.Fatalf("expected warning for yes_no item on a board election, got %+v", check)
	}
}

func TestMergeManualFindingsPreservesOverrides(t *testing.T) {
	rules := ResolveRuleSet(DefaultRuleSets(), "CA")
	election := entities.Election{Type: entities.ElectionTypeBoardElection, QuorumRequired: 30}

	generated := GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules})
	stored := append([]entities.ComplianceCheck(nil), generated...)
	for i := range stored {
		if stored[i].CheckID == "inspector_of_elections" {
			stored[i].Status = entities.ComplianceStatusPass
			stored[i].Note = "inspector appointed 2026-02-10"
		}
	}

	merged := MergeManualFindings(GenerateComplianceChecks(ComplianceContext{Election: election, Rules: rules}), stored)
	check := findCheck(t, merged, "inspector_of_elections")
	if check.Status != entities.ComplianceStatusPass || check.Note != "inspector appointed 2026-02-10" {
		t.Fatalf("expected manual finding preserved across regeneration, got %+v", check)
	}

	// Auto-checked rules always reflect fresh engine output.
	quorum := findCheck(t, merged, RuleQuorumFloor)
	if quorum.Status != entities.ComplianceStatusPass || !quorum.AutoChecked {
		t.Fatalf("expected fresh auto result for quorum floor, got %+v", quorum)
	}
}
