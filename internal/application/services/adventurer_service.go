package services

import (
	"context"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

// AdventurerService handles academy operations
type AdventurerService struct {
	adventurers *collection[entities.Adventurer]
	validator   *validation.Validator
	logger      *logger.Logger
}

// NewAdventurerService creates a new adventurer service
func NewAdventurerService(repo ports.Repository[entities.Adventurer], validator *validation.Validator, logger *logger.Logger) *AdventurerService {
	return &AdventurerService{
		adventurers: newCollection(repo),
		validator:   validator,
		logger:      logger.WithCollection(entities.AdventurersCollection),
	}
}

// CreateAdventurer enrolls an adventurer at level 1 with full stamina
func (s *AdventurerService) CreateAdventurer(ctx context.Context, req ports.CreateAdventurerRequest) (*entities.Adventurer, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	skills := make([]string, len(req.Skills))
	copy(skills, req.Skills)

	adventurer, err := s.adventurers.insert(ctx, func(id int) entities.Adventurer {
		return entities.Adventurer{
			ID:         id,
			Name:       req.Name,
			Level:      entities.InitialLevel,
			Experience: 0,
			Stamina:    entities.InitialStamina,
			Skills:     skills,
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.AdventurersCollection, "create", adventurer.ID, map[string]interface{}{
		"name": adventurer.Name,
	})

	return &adventurer, nil
}

// ListAdventurers returns the adventurers matching every supplied filter
func (s *AdventurerService) ListAdventurers(ctx context.Context, filter ports.AdventurerFilter) ([]entities.Adventurer, error) {
	if err := s.validator.Validate(&filter); err != nil {
		return nil, err
	}

	adventurers, err := s.adventurers.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilters(adventurers,
		member(filter.Skill, func(a entities.Adventurer) []string { return a.Skills }),
		atLeast(filter.MinLevel, func(a entities.Adventurer) int { return a.Level }),
	), nil
}

// GetAdventurer retrieves an adventurer by ID
func (s *AdventurerService) GetAdventurer(ctx context.Context, id int) (*entities.Adventurer, error) {
	adventurer, err := s.adventurers.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &adventurer, nil
}

// UpdateAdventurer merges the supplied fields onto an existing adventurer
func (s *AdventurerService) UpdateAdventurer(ctx context.Context, id int, req ports.UpdateAdventurerRequest) (*entities.Adventurer, error) {
	if _, err := s.adventurers.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePatch(&req); err != nil {
		return nil, err
	}

	adventurer, err := s.adventurers.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.AdventurersCollection, "update", id, nil)

	return &adventurer, nil
}

// DeleteAdventurer removes an adventurer and returns it
func (s *AdventurerService) DeleteAdventurer(ctx context.Context, id int) (*entities.Adventurer, error) {
	adventurer, err := s.adventurers.remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.AdventurersCollection, "delete", id, nil)

	return &adventurer, nil
}

// AdjustStamina adds amount to the adventurer's stamina, never going below zero
func (s *AdventurerService) AdjustStamina(ctx context.Context, id int, req ports.StaminaRequest) (*entities.Adventurer, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	adventurer, err := s.adventurers.updateChecked(ctx, id, func(current entities.Adventurer) (interface{}, error) {
		return map[string]int{
			"stamina": current.AdjustedStamina(*req.Amount),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.AdventurersCollection, "stamina", id, map[string]interface{}{
		"amount":  *req.Amount,
		"stamina": adventurer.Stamina,
	})

	return &adventurer, nil
}
