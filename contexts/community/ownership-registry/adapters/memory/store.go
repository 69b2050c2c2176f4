package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"strata/contexts/community/ownership-registry/domain/entities"
	domainerrors "strata/contexts/community/ownership-registry/domain/errors"
)

type Store struct {
	mu    sync.RWMutex
	units map[string]entities.Unit
}

func NewStore(seed []entities.Unit) *Store {
	units := make(map[string]entities.Unit, len(seed))
	for _, unit := range seed {
		units[unit.UnitNumber] = unit
	}
	return &Store{units: units}
}

func (s *Store) SaveUnit(_ context.Context, unit entities.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[strings.TrimSpace(unit.UnitNumber)] = unit
	return nil
}

func (s *Store) GetUnit(_ context.Context, unitNumber string) (entities.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	unit, ok := s.units[strings.TrimSpace(unitNumber)]
	if !ok {
		return entities.Unit{}, domainerrors.ErrUnitNotFound
	}
	return unit, nil
}

func (s *Store) DeleteUnit(_ context.Context, unitNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.units[strings.TrimSpace(unitNumber)]; !ok {
		return domainerrors.ErrUnitNotFound
	}
	delete(s.units, strings.TrimSpace(unitNumber))
	return nil
}

func (s *Store) ListUnits(_ context.Context) ([]entities.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Unit, 0, len(s.units))
	for _, unit := range s.units {
		out = append(out, unit)
	}
	return out, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
