package services

import (
	"context"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

// MovieService handles movie catalog operations
type MovieService struct {
	movies    *collection[entities.Movie]
	validator *validation.Validator
	logger    *logger.Logger
}

// NewMovieService creates a new movie service
func NewMovieService(repo ports.Repository[entities.Movie], validator *validation.Validator, logger *logger.Logger) *MovieService {
	return &MovieService{
		movies:    newCollection(repo),
		validator: validator,
		logger:    logger.WithCollection(entities.MoviesCollection),
	}
}

// CreateMovie adds a movie to the catalog
func (s *MovieService) CreateMovie(ctx context.Context, req ports.CreateMovieRequest) (*entities.Movie, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	movie, err := s.movies.insert(ctx, func(id int) entities.Movie {
		return entities.Movie{
			ID:       id,
			Title:    req.Title,
			Director: req.Director,
			Year:     req.Year,
			Genre:    entities.MovieGenre(req.Genre),
			Rating:   *req.Rating,
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.MoviesCollection, "create", movie.ID, map[string]interface{}{
		"title": movie.Title,
	})

	return &movie, nil
}

// ListMovies returns the movies matching every supplied filter
func (s *MovieService) ListMovies(ctx context.Context, filter ports.MovieFilter) ([]entities.Movie, error) {
	if err := s.validator.Validate(&filter); err != nil {
		return nil, err
	}

	movies, err := s.movies.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilters(movies,
		equalFold(filter.Genre, func(m entities.Movie) string { return string(m.Genre) }),
		exactInt(filter.Year, func(m entities.Movie) int { return m.Year }),
		containsFold(filter.Director, func(m entities.Movie) string { return m.Director }),
	), nil
}

// GetMovie retrieves a movie by ID
func (s *MovieService) GetMovie(ctx context.Context, id int) (*entities.Movie, error) {
	movie, err := s.movies.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// UpdateMovie merges the supplied fields onto an existing movie
func (s *MovieService) UpdateMovie(ctx context.Context, id int, req ports.UpdateMovieRequest) (*entities.Movie, error) {
	if _, err := s.movies.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePatch(&req); err != nil {
		return nil, err
	}

	movie, err := s.movies.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.MoviesCollection, "update", id, nil)

	return &movie, nil
}

// DeleteMovie removes a movie and returns it
func (s *MovieService) DeleteMovie(ctx context.Context, id int) (*entities.Movie, error) {
	movie, err := s.movies.remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.MoviesCollection, "delete", id, nil)

	return &movie, nil
}
