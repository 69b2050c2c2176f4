package entities

import "time"

type DocumentKind string

const (
	DocumentKindBylaws    DocumentKind = "bylaws"
	DocumentKindCCRs      DocumentKind = "ccrs"
	DocumentKindCovenants DocumentKind = "covenants"
	DocumentKindRules     DocumentKind = "rules"
	DocumentKindOther     DocumentKind = "other"
)

type DocumentStatus string

const (
	DocumentStatusCurrent    DocumentStatus = "current"
	DocumentStatusSuperseded DocumentStatus = "superseded"
	DocumentStatusDraft      DocumentStatus = "draft"
)

// Document is governing-document metadata only; the file itself lives in the
// association's document storage, outside this module.
type Document struct {
	DocumentID    string
	Name          string
	Kind          DocumentKind
	Status        DocumentStatus
	EffectiveDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
