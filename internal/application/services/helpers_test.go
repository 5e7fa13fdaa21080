package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/practicas/core/internal/adapters/repository"
	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/infrastructure/storage"
)

func ptr[T any](v T) *T { return &v }

func newJSONFile[T any](t *testing.T, key string, seed ...T) *storage.JSONFile[T] {
	t.Helper()

	store := storage.NewJSONFile[T](filepath.Join(t.TempDir(), key+".json"), key)
	if len(seed) > 0 {
		require.NoError(t, store.Save(context.Background(), seed))
	}
	return store
}

func newStudentService(t *testing.T, seed ...entities.Student) *StudentService {
	t.Helper()
	store := newJSONFile(t, entities.StudentsCollection, seed...)
	return NewStudentService(repository.NewStudentRepository(store), validation.New(), logger.NewNop())
}

func newMovieService(t *testing.T, seed ...entities.Movie) *MovieService {
	t.Helper()
	store := newJSONFile(t, entities.MoviesCollection, seed...)
	return NewMovieService(repository.NewMovieRepository(store), validation.New(), logger.NewNop())
}

func newBookService(t *testing.T, seed ...entities.Book) *BookService {
	t.Helper()
	store := newJSONFile(t, entities.BooksCollection, seed...)
	return NewBookService(repository.NewBookRepository(store), validation.New(), logger.NewNop())
}

func newAdventurerService(t *testing.T, seed ...entities.Adventurer) *AdventurerService {
	t.Helper()
	store := newJSONFile(t, entities.AdventurersCollection, seed...)
	return NewAdventurerService(repository.NewAdventurerRepository(store), validation.New(), logger.NewNop())
}
