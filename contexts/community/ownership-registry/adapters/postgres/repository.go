package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"strata/contexts/community/ownership-registry/domain/entities"
	domainerrors "strata/contexts/community/ownership-registry/domain/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type unitModel struct {
	UnitNumber string    `gorm:"column:unit_number;primaryKey"`
	Owner      string    `gorm:"column:owner"`
	VotingPct  float64   `gorm:"column:voting_pct"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (unitModel) TableName() string { return "registry_units" }

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

func (r *Repository) SaveUnit(ctx context.Context, unit entities.Unit) error {
	row := unitModel{
		UnitNumber: unit.UnitNumber,
		Owner:      unit.Owner,
		VotingPct:  unit.VotingPct,
		Status:     string(unit.Status),
		CreatedAt:  unit.CreatedAt,
		UpdatedAt:  unit.UpdatedAt,
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "unit_number"}},
		DoUpdates: clause.Assignments(map[string]any{
			"owner":      row.Owner,
			"voting_pct": row.VotingPct,
			"status":     row.Status,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("registry_repo_save_unit_failed", create.Error, "unit_number", unit.UnitNumber)
	}
	return nil
}

func (r *Repository) GetUnit(ctx context.Context, unitNumber string) (entities.Unit, error) {
	var row unitModel
	err := r.db.WithContext(ctx).
		Where("unit_number = ?", strings.TrimSpace(unitNumber)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Unit{}, domainerrors.ErrUnitNotFound
		}
		return entities.Unit{}, r.logError("registry_repo_get_unit_failed", err, "unit_number", unitNumber)
	}
	return row.toEntity(), nil
}

func (r *Repository) DeleteUnit(ctx context.Context, unitNumber string) error {
	result := r.db.WithContext(ctx).
		Where("unit_number = ?", strings.TrimSpace(unitNumber)).
		Delete(&unitModel{})
	if result.Error != nil {
		return r.logError("registry_repo_delete_unit_failed", result.Error, "unit_number", unitNumber)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnitNotFound
	}
	return nil
}

func (r *Repository) ListUnits(ctx context.Context) ([]entities.Unit, error) {
	var rows []unitModel
	if err := r.db.WithContext(ctx).
		Order("unit_number asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("registry_repo_list_units_failed", err)
	}
	units := make([]entities.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, row.toEntity())
	}
	return units, nil
}

func (m unitModel) toEntity() entities.Unit {
	return entities.Unit{
		UnitNumber: m.UnitNumber,
		Owner:      m.Owner,
		VotingPct:  m.VotingPct,
		Status:     entities.UnitStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "community/ownership-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("registry repository operation failed", attrs...)
	return err
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
