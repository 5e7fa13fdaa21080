package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/infrastructure/storage"
	"github.com/practicas/core/internal/ports"
)

func newBookRepo(t *testing.T, seed ...entities.Book) ports.Repository[entities.Book] {
	t.Helper()

	store := storage.NewJSONFile[entities.Book](filepath.Join(t.TempDir(), "libros.json"), entities.BooksCollection)
	if len(seed) > 0 {
		require.NoError(t, store.Save(context.Background(), seed))
	}

	return NewBookRepository(store)
}

func sampleBooks() []entities.Book {
	return []entities.Book{
		{ID: 1, Title: "Cien años de soledad", Author: "Gabriel García Márquez", Year: 1967, Genre: entities.BookGenreFiction, Available: true},
		{ID: 2, Title: "Sapiens", Author: "Yuval Noah Harari", Year: 2011, Genre: entities.BookGenreHistory, Available: false, Loans: 4},
	}
}

func TestCollectionRepository_GetAllEmpty(t *testing.T) {
	repo := newBookRepo(t)

	books, err := repo.GetAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCollectionRepository_GetByID(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)

	book, err := repo.GetByID(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Sapiens", book.Title)
}

func TestCollectionRepository_NotFound(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 99)
	assert.True(t, entities.IsKind(err, entities.KindNotFound))
	assert.EqualError(t, err, "book 99 not found")

	_, err = repo.Update(ctx, 99, map[string]bool{"disponible": true})
	assert.True(t, entities.IsKind(err, entities.KindNotFound))

	_, err = repo.Delete(ctx, 99)
	assert.True(t, entities.IsKind(err, entities.KindNotFound))
}

func TestCollectionRepository_CreateAppends(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)
	ctx := context.Background()

	created, err := repo.Create(ctx, entities.Book{ID: 3, Title: "Ficciones", Author: "Jorge Luis Borges", Year: 1944, Genre: entities.BookGenreFiction, Available: true})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)

	books, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{books[0].ID, books[1].ID, books[2].ID})
}

func TestCollectionRepository_UpdateMergesSuppliedKeys(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)
	ctx := context.Background()

	title := "Sapiens: De animales a dioses"
	updated, err := repo.Update(ctx, 2, ports.UpdateBookRequest{Title: &title})
	require.NoError(t, err)

	expected := sampleBooks()[1]
	expected.Title = title
	assert.Equal(t, expected, updated)

	stored, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, expected, stored)
}

func TestCollectionRepository_UpdateCannotChangeID(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)
	ctx := context.Background()

	_, err := repo.Update(ctx, 1, map[string]int{"id": 7})
	assert.True(t, entities.IsKind(err, entities.KindValidation))

	book, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks()[0], book)
}

func TestCollectionRepository_DeleteReturnsRemoved(t *testing.T) {
	repo := newBookRepo(t, sampleBooks()...)
	ctx := context.Background()

	removed, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks()[0], removed)

	books, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks()[1:], books)
}

type failingStore struct {
	err error
}

func (s failingStore) Load(context.Context) ([]entities.Book, error) { return nil, s.err }
func (s failingStore) Save(context.Context, []entities.Book) error  { return s.err }

func TestCollectionRepository_StorageErrorsPropagate(t *testing.T) {
	storeErr := entities.NewStorageError("failed to read libros", errors.New("disk on fire"))
	repo := NewBookRepository(failingStore{err: storeErr})
	ctx := context.Background()

	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, storeErr)

	_, err = repo.Create(ctx, entities.Book{ID: 1})
	assert.True(t, entities.IsKind(err, entities.KindStorage))
}
