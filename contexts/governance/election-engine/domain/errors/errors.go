package errors

import "errors"

var (
	ErrInvalidElectionInput       = errors.New("invalid election input")
	ErrElectionNotFound           = errors.New("election not found")
	ErrBallotItemNotFound         = errors.New("ballot item not found")
	ErrCandidateNotFound          = errors.New("candidate not found")
	ErrBallotNotFound             = errors.New("ballot not found")
	ErrComplianceCheckNotFound    = errors.New("compliance check not found")
	ErrPrecondition               = errors.New("election lifecycle precondition failed")
	ErrElectionNotOpen            = errors.New("election is not open for voting")
	ErrDuplicateBallot            = errors.New("unit has already voted in this election")
	ErrIneligibleUnit             = errors.New("unit is not eligible to vote")
	ErrInvalidVotePayload         = errors.New("invalid vote payload")
	ErrMissingProxyAuthorization  = errors.New("proxy ballot is missing authorization")
	ErrElectionCertified          = errors.New("election is certified and immutable")
	ErrResolutionNotAllowed       = errors.New("resolution requires a closed or certified election")
	ErrManualOverrideOnAutoCheck  = errors.New("auto-checked compliance rules cannot be manually overridden")
)
