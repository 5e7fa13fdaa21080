package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicas/core/internal/domain/entities"
)

func newMovieFile(t *testing.T) *JSONFile[entities.Movie] {
	t.Helper()
	return NewJSONFile[entities.Movie](filepath.Join(t.TempDir(), "peliculas.json"), entities.MoviesCollection)
}

func TestJSONFile_LoadMissingFileIsEmpty(t *testing.T) {
	store := newMovieFile(t)

	movies, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
	assert.Equal(t, entities.MoviesCollection, store.Key())
}

func TestJSONFile_LoadBlankFileIsEmpty(t *testing.T) {
	store := newMovieFile(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0o644))

	movies, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestJSONFile_LoadMissingKeyIsEmpty(t *testing.T) {
	store := newMovieFile(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"otra": [{"id": 1}]}`), 0o644))

	movies, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestJSONFile_LoadCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{"peliculas": [`},
		{name: "key is not an array", content: `{"peliculas": {"id": 1}}`},
		{name: "top level array", content: `[{"id": 1}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMovieFile(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o644))

			_, err := store.Load(context.Background())

			require.Error(t, err)
			assert.True(t, entities.IsKind(err, entities.KindStorage))
		})
	}
}

func TestJSONFile_SaveThenLoad(t *testing.T) {
	store := newMovieFile(t)
	ctx := context.Background()

	movies := []entities.Movie{
		{ID: 1, Title: "Dune", Director: "Denis Villeneuve", Year: 2021, Genre: entities.MovieGenreScienceFiction, Rating: 8.5},
		{ID: 2, Title: "Amélie", Director: "Jean-Pierre Jeunet", Year: 2001, Genre: entities.MovieGenreComedy, Rating: 8.3},
	}
	require.NoError(t, store.Save(ctx, movies))

	loaded, err := store.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, movies, loaded)
}

func TestJSONFile_SaveFormat(t *testing.T) {
	store := newMovieFile(t)

	require.NoError(t, store.Save(context.Background(), []entities.Movie{{ID: 1, Title: "Dune"}}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	expected := `{
  "peliculas": [
    {
      "id": 1,
      "titulo": "Dune",
      "director": "",
      "año": 0,
      "genero": "",
      "calificacion": 0
    }
  ]
}`
	assert.Equal(t, expected, string(data))
}

func TestJSONFile_SaveEmptyWritesArray(t *testing.T) {
	store := newMovieFile(t)

	require.NoError(t, store.Save(context.Background(), nil))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"peliculas": []}`, string(data))
}

func TestJSONFile_SaveLeavesNoTempFiles(t *testing.T) {
	store := newMovieFile(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []entities.Movie{{ID: 1}}))
	require.NoError(t, store.Save(ctx, []entities.Movie{{ID: 1}, {ID: 2}}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "peliculas.json", entries[0].Name())
}

func TestJSONFile_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "libros.json")
	store := NewJSONFile[entities.Book](path, entities.BooksCollection)

	require.NoError(t, store.Save(context.Background(), []entities.Book{{ID: 1, Title: "Rayuela"}}))

	books, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Rayuela", books[0].Title)
}
