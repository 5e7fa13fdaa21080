package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/infrastructure/config"
	"github.com/practicas/core/internal/infrastructure/logger"
)

func testStorageConfig(t *testing.T) config.StorageConfig {
	t.Helper()
	return config.StorageConfig{
		DataDir:         filepath.Join(t.TempDir(), "data"),
		StudentsFile:    "estudiantes.json",
		MoviesFile:      "peliculas.json",
		BooksFile:       "libros.json",
		AdventurersFile: "adventurers.json",
	}
}

func TestOpen_CreatesDataDir(t *testing.T) {
	cfg := testStorageConfig(t)

	dir, err := Open(cfg)

	require.NoError(t, err)
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, cfg.DataDir, dir.Path())
	assert.Equal(t, filepath.Join(cfg.DataDir, "libros.json"), dir.File(cfg.BooksFile))
	assert.NoError(t, dir.HealthCheck())
}

func TestDir_GetInfo(t *testing.T) {
	cfg := testStorageConfig(t)
	dir, err := Open(cfg)
	require.NoError(t, err)

	store := NewJSONFile[entities.Student](dir.File(cfg.StudentsFile), entities.StudentsCollection)
	require.NoError(t, store.Save(context.Background(), []entities.Student{{ID: 1, Name: "Ana"}}))

	info := dir.GetInfo()

	assert.Equal(t, cfg.DataDir, info["data_dir"])
	students, ok := info["estudiantes"].(map[string]interface{})
	require.True(t, ok)
	assert.Greater(t, students["size_bytes"], int64(0))

	books, ok := info["libros"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(-1), books["size_bytes"])
}

func TestWithLogging_PassesThrough(t *testing.T) {
	inner := NewJSONFile[entities.Book](filepath.Join(t.TempDir(), "libros.json"), entities.BooksCollection)
	core, logs := observer.New(zapcore.DebugLevel)
	store := WithLogging[entities.Book](inner, inner.Key(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []entities.Book{{ID: 3, Title: "Ficciones"}}))

	books, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Book{{ID: 3, Title: "Ficciones"}}, books)

	entries := logs.FilterField(zap.String("collection", entities.BooksCollection)).All()
	require.Len(t, entries, 2)
	assert.Equal(t, "save", entries[0].ContextMap()["operation"])
	assert.Equal(t, "load", entries[1].ContextMap()["operation"])
}
