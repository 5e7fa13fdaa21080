package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/practicas/core/internal/infrastructure/config"
)

func storageConfig(t *testing.T) config.StorageConfig {
	t.Helper()

	return config.StorageConfig{
		DataDir:         filepath.Join(t.TempDir(), "data"),
		StudentsFile:    "estudiantes.json",
		MoviesFile:      "peliculas.json",
		BooksFile:       "libros.json",
		AdventurersFile: "adventurers.json",
	}
}

func TestInitStore_WritesEmptyCollections(t *testing.T) {
	cfg := storageConfig(t)
	var out bytes.Buffer

	require.NoError(t, InitStore(context.Background(), cfg, false, &out))

	data, err := os.ReadFile(cfg.Path(cfg.MoviesFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"peliculas": []}`, string(data))
	assert.Equal(t, 4, strings.Count(out.String(), "created"))
}

func TestInitStore_KeepsExistingFilesUnlessForced(t *testing.T) {
	cfg := storageConfig(t)
	ctx := context.Background()
	require.NoError(t, InitStore(ctx, cfg, false, &bytes.Buffer{}))

	books := `{"libros": [{"id": 1, "titulo": "Rayuela", "autor": "Julio Cortázar", "año": 1963, "genero": "Ficción", "disponible": true, "prestamos": 0}]}`
	require.NoError(t, os.WriteFile(cfg.Path(cfg.BooksFile), []byte(books), 0o644))

	var out bytes.Buffer
	require.NoError(t, InitStore(ctx, cfg, false, &out))
	assert.Equal(t, 4, strings.Count(out.String(), "exists"))

	data, err := os.ReadFile(cfg.Path(cfg.BooksFile))
	require.NoError(t, err)
	assert.JSONEq(t, books, string(data))

	require.NoError(t, InitStore(ctx, cfg, true, &bytes.Buffer{}))
	data, err = os.ReadFile(cfg.Path(cfg.BooksFile))
	require.NoError(t, err)
	assert.JSONEq(t, `{"libros": []}`, string(data))
}

func TestCheckStore_ReportsCountsAndFailures(t *testing.T) {
	cfg := storageConfig(t)
	ctx := context.Background()
	require.NoError(t, InitStore(ctx, cfg, false, &bytes.Buffer{}))

	students := `{"estudiantes": [{"id": 1, "nombre": "Ana Torres", "carrera": "Medicina", "nivel": 1, "puntos": 0, "activo": true}]}`
	require.NoError(t, os.WriteFile(cfg.Path(cfg.StudentsFile), []byte(students), 0o644))

	var out bytes.Buffer
	require.NoError(t, CheckStore(ctx, cfg, &out))
	assert.Regexp(t, `estudiantes\s+1\s`, out.String())

	require.NoError(t, os.WriteFile(cfg.Path(cfg.MoviesFile), []byte(`{"peliculas": [`), 0o644))

	out.Reset()
	err := CheckStore(ctx, cfg, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "peliculas    ERROR")
}

func TestTokenHashCommand(t *testing.T) {
	cmd := NewTokenCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash", "s3cret"})

	require.NoError(t, cmd.Execute())

	hashed := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Practicas API v"+Version)
}
