package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SaveDocumentRequest struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

type DocumentResponse struct {
	DocumentID    string     `json:"document_id"`
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
}
