package ports

import (
	"context"
	"time"

	"strata/contexts/community/ownership-registry/domain/entities"
)

type UnitRepository interface {
	SaveUnit(ctx context.Context, unit entities.Unit) error
	GetUnit(ctx context.Context, unitNumber string) (entities.Unit, error)
	DeleteUnit(ctx context.Context, unitNumber string) error
	ListUnits(ctx context.Context) ([]entities.Unit, error)
}

type Clock interface {
	Now() time.Time
}
