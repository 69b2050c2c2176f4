package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"strata/contexts/governance/document-registry/domain/entities"
	domainerrors "strata/contexts/governance/document-registry/domain/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	Name          string     `gorm:"column:name"`
	Kind          string     `gorm:"column:kind"`
	Status        string     `gorm:"column:status"`
	EffectiveDate *time.Time `gorm:"column:effective_date"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (documentModel) TableName() string { return "governing_documents" }

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) SaveDocument(ctx context.Context, document entities.Document) error {
	row := documentModel{
		ID:            document.DocumentID,
		Name:          document.Name,
		Kind:          string(document.Kind),
		Status:        string(document.Status),
		EffectiveDate: document.EffectiveDate,
		CreatedAt:     document.CreatedAt,
		UpdatedAt:     document.UpdatedAt,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":           row.Name,
			"kind":           row.Kind,
			"status":         row.Status,
			"effective_date": row.EffectiveDate,
			"updated_at":     row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("document_repo_save_failed", create.Error, "document_id", document.DocumentID)
	}
	return nil
}

func (r *Repository) GetDocument(ctx context.Context, documentID string) (entities.Document, error) {
	var row documentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(documentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Document{}, domainerrors.ErrDocumentNotFound
		}
		return entities.Document{}, r.logError("document_repo_get_failed", err, "document_id", documentID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListDocuments(ctx context.Context) ([]entities.Document, error) {
	var rows []documentModel
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("document_repo_list_failed", err)
	}
	documents := make([]entities.Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, row.toEntity())
	}
	return documents, nil
}

func (m documentModel) toEntity() entities.Document {
	return entities.Document{
		DocumentID:    m.ID,
		Name:          m.Name,
		Kind:          entities.DocumentKind(m.Kind),
		Status:        entities.DocumentStatus(m.Status),
		EffectiveDate: m.EffectiveDate,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "governance/document-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("document repository operation failed", attrs...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
