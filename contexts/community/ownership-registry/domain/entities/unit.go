package entities

import "time"

type UnitStatus string

const (
	UnitStatusOccupied UnitStatus = "occupied"
	UnitStatusVacant   UnitStatus = "vacant"
)

// Unit is one addressable unit in the association. VotingPct is the unit's
// fractional ownership interest, the weight its ballot carries in any
// ownership-weighted vote.
type Unit struct {
	UnitNumber string
	Owner      string
	VotingPct  float64
	Status     UnitStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
