package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UpsertUnitRequest struct {
	Owner     string  `json:"owner,omitempty"`
	VotingPct float64 `json:"voting_pct"`
	Status    string  `json:"status"`
}

type UnitResponse struct {
	UnitNumber string    `json:"unit_number"`
	Owner      string    `json:"owner,omitempty"`
	VotingPct  float64   `json:"voting_pct"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UnitListResponse struct {
	Items          []UnitResponse `json:"items"`
	TotalVotingPct float64        `json:"total_voting_pct"`
	Warnings       []string       `json:"warnings,omitempty"`
}
