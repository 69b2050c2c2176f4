package queries

import (
	"context"
	"fmt"
	"strings"

	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

// Stable rule ids. Manual board overrides are merged back by these ids after
// every regeneration, so they must never change meaning.
const (
	RuleNoticeLeadTime       = "notice_lead_time"
	RuleQuorumFloor          = "quorum_floor"
	RuleLegalRefOnFile       = "legal_ref_on_file"
	RuleItemTypePlausibility = "item_type_plausibility"
)

// NoticeWindow bounds the days between member notice and opening the vote.
// MaxDays of zero means no upper bound.
type NoticeWindow struct {
	MinDays int
	MaxDays int
}

// ManualRule is a jurisdiction requirement no automatic rule can verify. It
// always surfaces as not_checked until a board member records a finding.
type ManualRule struct {
	CheckID     string
	Rule        string
	Requirement string
	Source      entities.ComplianceSource
}

// RuleSet is jurisdiction data, not logic: statutory thresholds, notice
// windows, and citations are supplied as configuration and the rule engine
// stays jurisdiction-agnostic.
type RuleSet struct {
	Jurisdiction   string
	Notice         NoticeWindow
	NoticeSource   entities.ComplianceSource
	NoticeCitation string
	QuorumFloors   map[entities.ElectionType]float64
	QuorumSource   entities.ComplianceSource
	QuorumCitation string
	ManualRules    []ManualRule
}

// DefaultRuleSets is the built-in jurisdiction table. Exact statutory values
// belong to the hosting deployment; these defaults are a starting point the
// host is expected to override through configuration.
func DefaultRuleSets() map[string]RuleSet {
	return map[string]RuleSet{
		"CA": {
			Jurisdiction:   "CA",
			Notice:         NoticeWindow{MinDays: 30, MaxDays: 105},
			NoticeSource:   entities.ComplianceSourceStatute,
			NoticeCitation: "Cal. Civ. Code 5115",
			QuorumFloors: map[entities.ElectionType]float64{
				entities.ElectionTypeBoardElection:     25,
				entities.ElectionTypeBylawAmendment:    50,
				entities.ElectionTypeSpecialAssessment: 50,
			},
			QuorumSource:   entities.ComplianceSourceStatute,
			QuorumCitation: "Cal. Civ. Code 5605",
			ManualRules: []ManualRule{
				{
					CheckID:     "inspector_of_elections",
					Rule:        "Independent inspector of elections appointed",
					Requirement: "Cal. Civ. Code 5110 requires one or three independent inspectors",
					Source:      entities.ComplianceSourceStatute,
				},
				{
					CheckID:     "secret_ballot_procedure",
					Rule:        "Double-envelope secret ballot procedure used",
					Requirement: "Cal. Civ. Code 5115(c) secret ballot requirements",
					Source:      entities.ComplianceSourceStatute,
				},
			},
		},
		"FL": {
			Jurisdiction:   "FL",
			Notice:         NoticeWindow{MinDays: 14, MaxDays: 60},
			NoticeSource:   entities.ComplianceSourceStatute,
			NoticeCitation: "Fla. Stat. 718.112(2)(d)",
			QuorumFloors: map[entities.ElectionType]float64{
				entities.ElectionTypeBudgetApproval:    33.3,
				entities.ElectionTypeSpecialAssessment: 33.3,
				entities.ElectionTypeBylawAmendment:    50,
			},
			QuorumSource:   entities.ComplianceSourceStatute,
			QuorumCitation: "Fla. Stat. 718.112(2)(b)",
			ManualRules: []ManualRule{
				{
					CheckID:     "envelope_ballot_retention",
					Rule:        "Ballots and envelopes retained for one year",
					Requirement: "Fla. Stat. 718.112(2)(d)4 retention requirement",
					Source:      entities.ComplianceSourceStatute,
				},
			},
		},
		"default": {
			Jurisdiction:   "default",
			Notice:         NoticeWindow{MinDays: 10, MaxDays: 90},
			NoticeSource:   entities.ComplianceSourceBestPractice,
			NoticeCitation: "community association best practice",
			QuorumFloors: map[entities.ElectionType]float64{
				entities.ElectionTypeBylawAmendment: 50,
			},
			QuorumSource:   entities.ComplianceSourceBestPractice,
			QuorumCitation: "community association best practice",
			ManualRules: []ManualRule{
				{
					CheckID:     "proxy_form_retention",
					Rule:        "Signed proxy authorizations on file",
					Requirement: "retain written proxy authorizations with the election record",
					Source:      entities.ComplianceSourceBestPractice,
				},
			},
		},
	}
}

// ResolveRuleSet returns the ruleset for a jurisdiction code, falling back to
// the "default" entry.
func ResolveRuleSet(rules map[string]RuleSet, jurisdiction string) RuleSet {
	if ruleSet, ok := rules[strings.ToUpper(strings.TrimSpace(jurisdiction))]; ok {
		return ruleSet
	}
	return rules["default"]
}

// ComplianceContext is everything the rule engine reads: the election shape,
// the jurisdiction ruleset, and the governing documents currently on file.
type ComplianceContext struct {
	Election  entities.Election
	Rules     RuleSet
	Documents []ports.GoverningDocument
}

// ComplianceUseCase regenerates findings on read and merges back the manual
// findings already stored on the aggregate.
type ComplianceUseCase struct {
	Elections ports.ElectionRepository
	Rules     map[string]RuleSet
}

func (uc ComplianceUseCase) ComplianceChecks(
	ctx context.Context,
	electionID string,
	jurisdiction string,
	documents []ports.GoverningDocument,
) ([]entities.ComplianceCheck, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	generated := GenerateComplianceChecks(ComplianceContext{
		Election:  election,
		Rules:     ResolveRuleSet(uc.Rules, jurisdiction),
		Documents: documents,
	})
	return MergeManualFindings(generated, election.ComplianceChecks), nil
}

// GenerateComplianceChecks is the pure rule engine. Auto rules produce
// pass/fail/warning; anything the engine cannot verify from data surfaces as
// not_checked, never as a silent pass.
func GenerateComplianceChecks(ctx ComplianceContext) []entities.ComplianceCheck {
	checks := []entities.ComplianceCheck{
		noticeLeadTimeCheck(ctx.Election, ctx.Rules),
	}
	if check, ok := quorumFloorCheck(ctx.Election, ctx.Rules); ok {
		checks = append(checks, check)
	}
	if check, ok := legalRefCheck(ctx.Election, ctx.Documents); ok {
		checks = append(checks, check)
	}
	if check, ok := itemTypePlausibilityCheck(ctx.Election); ok {
		checks = append(checks, check)
	}
	for _, rule := range ctx.Rules.ManualRules {
		checks = append(checks, entities.ComplianceCheck{
			CheckID:     rule.CheckID,
			Rule:        rule.Rule,
			Requirement: rule.Requirement,
			Source:      rule.Source,
			Status:      entities.ComplianceStatusNotChecked,
			AutoChecked: false,
		})
	}
	return checks
}

// MergeManualFindings preserves board-entered findings by check id across
// regeneration. Auto-checked results always win for auto rules.
func MergeManualFindings(generated, stored []entities.ComplianceCheck) []entities.ComplianceCheck {
	manual := make(map[string]entities.ComplianceCheck, len(stored))
	for _, check := range stored {
		if !check.AutoChecked {
			manual[check.CheckID] = check
		}
	}
	merged := make([]entities.ComplianceCheck, len(generated))
	for i, check := range generated {
		merged[i] = check
		if check.AutoChecked {
			continue
		}
		if override, ok := manual[check.CheckID]; ok {
			merged[i].Status = override.Status
			merged[i].Note = override.Note
		}
	}
	return merged
}

func noticeLeadTimeCheck(election entities.Election, rules RuleSet) entities.ComplianceCheck {
	check := entities.ComplianceCheck{
		CheckID:     RuleNoticeLeadTime,
		Rule:        "Member notice lead time",
		Requirement: fmt.Sprintf("notice %d-%d days before voting opens (%s)", rules.Notice.MinDays, rules.Notice.MaxDays, rules.NoticeCitation),
		Source:      rules.NoticeSource,
	}
	if election.NoticeDate == nil {
		check.Status = entities.ComplianceStatusNotChecked
		check.Note = "notice date not recorded; verify manually"
		return check
	}
	if election.OpenedAt == nil {
		check.Status = entities.ComplianceStatusNotChecked
		check.Note = "election not yet opened"
		return check
	}

	check.AutoChecked = true
	leadDays := int(election.OpenedAt.Sub(*election.NoticeDate).Hours() / 24)
	switch {
	case leadDays < rules.Notice.MinDays:
		check.Status = entities.ComplianceStatusFail
		check.Note = fmt.Sprintf("notice given %d days before opening; minimum is %d", leadDays, rules.Notice.MinDays)
	case rules.Notice.MaxDays > 0 && leadDays > rules.Notice.MaxDays:
		check.Status = entities.ComplianceStatusFail
		check.Note = fmt.Sprintf("notice given %d days before opening; maximum is %d", leadDays, rules.Notice.MaxDays)
	default:
		check.Status = entities.ComplianceStatusPass
	}
	return check
}

func quorumFloorCheck(election entities.Election, rules RuleSet) (entities.ComplianceCheck, bool) {
	floor, ok := rules.QuorumFloors[election.Type]
	if !ok {
		return entities.ComplianceCheck{}, false
	}
	check := entities.ComplianceCheck{
		CheckID:     RuleQuorumFloor,
		Rule:        "Quorum meets statutory floor",
		Requirement: fmt.Sprintf("quorum for %s must be at least %.1f%% (%s)", election.Type, floor, rules.QuorumCitation),
		Source:      rules.QuorumSource,
		AutoChecked: true,
		Status:      entities.ComplianceStatusPass,
	}
	if election.QuorumRequired < floor {
		check.Status = entities.ComplianceStatusWarning
		check.Note = fmt.Sprintf("configured quorum %.1f%% is below the %.1f%% floor", election.QuorumRequired, floor)
	}
	return check, true
}

func legalRefCheck(election entities.Election, documents []ports.GoverningDocument) (entities.ComplianceCheck, bool) {
	cited := false
	var unverified []string
	for _, item := range election.BallotItems {
		kind := governingDocKind(item.LegalRef)
		if kind == "" {
			continue
		}
		cited = true
		if !hasCurrentDocument(documents, kind) {
			unverified = append(unverified, item.Title)
		}
	}
	if !cited {
		return entities.ComplianceCheck{}, false
	}

	check := entities.ComplianceCheck{
		CheckID:     RuleLegalRefOnFile,
		Rule:        "Cited governing documents on file",
		Requirement: "ballot items citing bylaws or CC&Rs need a current governing document on record",
		Source:      entities.ComplianceSourceBylaws,
		AutoChecked: true,
		Status:      entities.ComplianceStatusPass,
	}
	if len(unverified) > 0 {
		// The item may proceed, but the board cannot verify its legal basis.
		check.Status = entities.ComplianceStatusWarning
		check.Note = "no current document on file for: " + strings.Join(unverified, ", ")
	}
	return check, true
}

func itemTypePlausibilityCheck(election entities.Election) (entities.ComplianceCheck, bool) {
	var mismatched []string
	switch election.Type {
	case entities.ElectionTypeBoardElection:
		// Board seats are decided by plurality among candidates.
		for _, item := range election.BallotItems {
			if item.Type == entities.BallotItemTypeYesNo {
				mismatched = append(mismatched, item.Title)
			}
		}
	case entities.ElectionTypeBudgetApproval, entities.ElectionTypeSpecialAssessment:
		// Money questions need a majority of ballots cast, not a slate.
		for _, item := range election.BallotItems {
			if item.Type != entities.BallotItemTypeYesNo || item.RequiredThreshold < 50 {
				mismatched = append(mismatched, item.Title)
			}
		}
	default:
		return entities.ComplianceCheck{}, false
	}

	check := entities.ComplianceCheck{
		CheckID:     RuleItemTypePlausibility,
		Rule:        "Ballot item types match election type",
		Requirement: "board elections use candidate slates; budget and assessment votes use majority yes/no items",
		Source:      entities.ComplianceSourceBestPractice,
		AutoChecked: true,
		Status:      entities.ComplianceStatusPass,
	}
	if len(mismatched) > 0 {
		// Board discretion: a mismatch warns, never fails.
		check.Status = entities.ComplianceStatusWarning
		check.Note = "unexpected item type for: " + strings.Join(mismatched, ", ")
	}
	return check, true
}

func governingDocKind(legalRef string) string {
	ref := strings.ToLower(legalRef)
	switch {
	case strings.Contains(ref, "bylaw"):
		return "bylaws"
	case strings.Contains(ref, "cc&r"), strings.Contains(ref, "ccr"), strings.Contains(ref, "covenant"):
		return "ccrs"
	default:
		return ""
	}
}

func hasCurrentDocument(documents []ports.GoverningDocument, kind string) bool {
	for _, doc := range documents {
		if doc.Status != "current" {
			continue
		}
		if doc.Kind == kind || (kind == "ccrs" && doc.Kind == "covenants") {
			return true
		}
	}
	return false
}
