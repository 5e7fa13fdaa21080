package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/practicas/core/internal/application/services"
	"github.com/practicas/core/internal/infrastructure/config"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/infrastructure/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{Name: "Practicas API", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Port:         3000,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			BodyLimit:    "1M",
		},
		Storage: config.StorageConfig{
			DataDir:         t.TempDir(),
			StudentsFile:    "estudiantes.json",
			MoviesFile:      "peliculas.json",
			BooksFile:       "libros.json",
			AdventurersFile: "adventurers.json",
		},
		Auth:     config.AuthConfig{JWTIssuer: "practicas-api", JWTExpiresIn: time.Hour},
		Logger:   config.LoggerConfig{Level: "error", Format: "json"},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:  config.MetricsConfig{Enabled: true},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	dir, err := storage.Open(cfg.Storage)
	require.NoError(t, err)

	srv, err := New(cfg, dir, logger.NewNop())
	require.NoError(t, err)

	return srv
}

type response struct {
	code int
	body map[string]interface{}
	raw  string
}

func do(t *testing.T, srv *Server, method, target, body string, headers ...string) response {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	res := response{code: rec.Code, raw: rec.Body.String()}
	if strings.HasPrefix(strings.TrimSpace(res.raw), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), res.raw)
	}
	return res
}

const duneJSON = `{"titulo":"Dune","director":"Denis Villeneuve","año":2021,"genero":"Ciencia Ficción","calificacion":8.5}`

func TestServer_MovieLifecycle(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	created := do(t, srv, http.MethodPost, "/peliculas", duneJSON)
	require.Equal(t, http.StatusCreated, created.code, created.raw)
	assert.Equal(t, float64(1), created.body["id"])
	assert.Equal(t, "Dune", created.body["titulo"])

	got := do(t, srv, http.MethodGet, "/peliculas/1", "")
	require.Equal(t, http.StatusOK, got.code)
	assert.Equal(t, created.body, got.body)

	invalid := do(t, srv, http.MethodPatch, "/peliculas/1", `{"calificacion":11}`)
	assert.Equal(t, http.StatusBadRequest, invalid.code)
	assert.Equal(t, "calificacion must be at most 10", invalid.body["error"])
	assert.NotEmpty(t, invalid.body["timestamp"])

	deleted := do(t, srv, http.MethodDelete, "/peliculas/1", "")
	require.Equal(t, http.StatusOK, deleted.code)
	assert.Equal(t, float64(8.5), deleted.body["calificacion"])

	gone := do(t, srv, http.MethodGet, "/peliculas/1", "")
	assert.Equal(t, http.StatusNotFound, gone.code)
	assert.Equal(t, "movie 1 not found", gone.body["error"])
}

func TestServer_RoutesUnderAPIPrefix(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	created := do(t, srv, http.MethodPost, "/api/v1/peliculas", duneJSON)
	require.Equal(t, http.StatusCreated, created.code, created.raw)

	got := do(t, srv, http.MethodGet, "/peliculas/1", "")
	assert.Equal(t, http.StatusOK, got.code)
}

func TestServer_PersistsToCollectionFile(t *testing.T) {
	cfg := testConfig(t)
	srv := newTestServer(t, cfg)

	created := do(t, srv, http.MethodPost, "/libros", `{"titulo":"Rayuela","autor":"Julio Cortázar","año":1963,"genero":"Ficción"}`)
	require.Equal(t, http.StatusCreated, created.code, created.raw)

	data, err := os.ReadFile(filepath.Join(cfg.Storage.DataDir, cfg.Storage.BooksFile))
	require.NoError(t, err)

	var doc map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["libros"], 1)
	assert.Equal(t, true, doc["libros"][0]["disponible"])
}

func TestServer_MalformedRequests(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	badJSON := do(t, srv, http.MethodPost, "/peliculas", `{"titulo":`)
	assert.Equal(t, http.StatusBadRequest, badJSON.code)
	assert.Equal(t, "invalid request body", badJSON.body["error"])

	badID := do(t, srv, http.MethodGet, "/peliculas/abc", "")
	assert.Equal(t, http.StatusBadRequest, badID.code)
	assert.Equal(t, "id must be an integer", badID.body["error"])

	forbiddenField := do(t, srv, http.MethodPost, "/libros", `{"id":9,"titulo":"Rayuela","autor":"Julio Cortázar","año":1963,"genero":"Ficción"}`)
	assert.Equal(t, http.StatusBadRequest, forbiddenField.code)
	assert.Equal(t, "id is assigned by the server and cannot be set", forbiddenField.body["error"])

	emptyPatch := do(t, srv, http.MethodPost, "/estudiantes", `{"nombre":"Ana Torres","carrera":"Medicina"}`)
	require.Equal(t, http.StatusCreated, emptyPatch.code, emptyPatch.raw)
	noFields := do(t, srv, http.MethodPatch, "/estudiantes/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, noFields.code)
	assert.Equal(t, "at least one field must be provided", noFields.body["error"])
}

func TestServer_Transitions(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	book := do(t, srv, http.MethodPost, "/libros", `{"titulo":"Rayuela","autor":"Julio Cortázar","año":1963,"genero":"Ficción"}`)
	require.Equal(t, http.StatusCreated, book.code, book.raw)

	loan := do(t, srv, http.MethodPost, "/libros/1/prestar", "")
	require.Equal(t, http.StatusOK, loan.code, loan.raw)
	assert.Equal(t, false, loan.body["disponible"])
	assert.Equal(t, float64(1), loan.body["prestamos"])

	again := do(t, srv, http.MethodPost, "/libros/1/prestar", "")
	assert.Equal(t, http.StatusBadRequest, again.code)
	assert.Equal(t, "book is not available", again.body["error"])

	back := do(t, srv, http.MethodPost, "/libros/1/devolver", "")
	assert.Equal(t, http.StatusOK, back.code)

	student := do(t, srv, http.MethodPost, "/estudiantes", `{"nombre":"Ana Torres","carrera":"Medicina"}`)
	require.Equal(t, http.StatusCreated, student.code, student.raw)

	refused := do(t, srv, http.MethodPost, "/estudiantes/1/subir-nivel", "")
	assert.Equal(t, http.StatusBadRequest, refused.code)
	assert.Equal(t, "100 points are needed to level up", refused.body["error"])

	points := do(t, srv, http.MethodPatch, "/estudiantes/1", `{"puntos":120}`)
	require.Equal(t, http.StatusOK, points.code, points.raw)

	levelUp := do(t, srv, http.MethodPost, "/estudiantes/1/subir-nivel", "")
	require.Equal(t, http.StatusOK, levelUp.code, levelUp.raw)
	assert.Equal(t, float64(2), levelUp.body["nivel"])
	assert.Equal(t, float64(20), levelUp.body["puntos"])

	adventurer := do(t, srv, http.MethodPost, "/adventurers", `{"name":"Aria","skills":["magia"]}`)
	require.Equal(t, http.StatusCreated, adventurer.code, adventurer.raw)

	tired := do(t, srv, http.MethodPost, "/adventurers/1/stamina", `{"amount":-150}`)
	require.Equal(t, http.StatusOK, tired.code, tired.raw)
	assert.Equal(t, float64(0), tired.body["stamina"])

	noAmount := do(t, srv, http.MethodPost, "/adventurers/1/stamina", `{}`)
	assert.Equal(t, http.StatusBadRequest, noAmount.code)

	notInt := do(t, srv, http.MethodPost, "/adventurers/1/stamina", `{"amount":"mucho"}`)
	assert.Equal(t, http.StatusBadRequest, notInt.code)
}

func TestServer_ListAndLegacySearch(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	for _, body := range []string{
		duneJSON,
		`{"titulo":"Sicario","director":"Denis Villeneuve","año":2015,"genero":"Drama","calificacion":7.6}`,
	} {
		res := do(t, srv, http.MethodPost, "/peliculas", body)
		require.Equal(t, http.StatusCreated, res.code, res.raw)
	}

	var movies []map[string]interface{}

	list := do(t, srv, http.MethodGet, "/peliculas?genero=drama", "")
	require.Equal(t, http.StatusOK, list.code)
	require.NoError(t, json.Unmarshal([]byte(list.raw), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Sicario", movies[0]["titulo"])

	byYear := do(t, srv, http.MethodGet, "/peliculas/buscar/anio?anio=2021", "")
	require.Equal(t, http.StatusOK, byYear.code)
	require.NoError(t, json.Unmarshal([]byte(byYear.raw), &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune", movies[0]["titulo"])

	missing := do(t, srv, http.MethodGet, "/peliculas/buscar/genero", "")
	assert.Equal(t, http.StatusBadRequest, missing.code)
	assert.Equal(t, "genero query parameter is required", missing.body["error"])

	empty := do(t, srv, http.MethodGet, "/estudiantes", "")
	assert.Equal(t, http.StatusOK, empty.code)
	assert.Equal(t, "[]", strings.TrimSpace(empty.raw))

	badFilter := do(t, srv, http.MethodGet, "/estudiantes?activo=quizas", "")
	assert.Equal(t, http.StatusBadRequest, badFilter.code)
}

func TestServer_AuthOnWriteRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Enabled = true
	cfg.Auth.Token = "s3cret"
	cfg.Auth.JWTSecret = "test-secret-with-enough-length"
	srv := newTestServer(t, cfg)

	missing := do(t, srv, http.MethodPost, "/peliculas", duneJSON)
	assert.Equal(t, http.StatusUnauthorized, missing.code)

	wrong := do(t, srv, http.MethodPost, "/peliculas", duneJSON, "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusForbidden, wrong.code)

	ok := do(t, srv, http.MethodPost, "/peliculas", duneJSON, "Authorization", "Bearer s3cret")
	assert.Equal(t, http.StatusCreated, ok.code, ok.raw)

	token, err := services.NewAuthService(cfg.Auth, logger.NewNop()).IssueToken("profesora", time.Minute)
	require.NoError(t, err)
	withJWT := do(t, srv, http.MethodDelete, "/peliculas/1", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, withJWT.code, withJWT.raw)

	read := do(t, srv, http.MethodGet, "/peliculas", "")
	assert.Equal(t, http.StatusOK, read.code)
}

func TestServer_Operational(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	health := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.code)
	assert.Equal(t, "ok", health.body["status"])

	ready := do(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, ready.code)

	detailed := do(t, srv, http.MethodGet, "/health/detailed", "")
	assert.Equal(t, http.StatusOK, detailed.code)

	hola := do(t, srv, http.MethodGet, "/hola", "")
	assert.Equal(t, http.StatusOK, hola.code)

	do(t, srv, http.MethodGet, "/peliculas", "")
	metrics := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.code)
	assert.Contains(t, metrics.raw, "http_requests_total")
	assert.Contains(t, metrics.raw, `store_operations_total{collection="peliculas",operation="load",result="ok"}`)

	unknown := do(t, srv, http.MethodGet, "/nada", "")
	assert.Equal(t, http.StatusNotFound, unknown.code)
	assert.NotEmpty(t, unknown.body["timestamp"])
}

func TestServer_CorruptFileIsServerError(t *testing.T) {
	cfg := testConfig(t)
	srv := newTestServer(t, cfg)

	path := filepath.Join(cfg.Storage.DataDir, cfg.Storage.MoviesFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"peliculas": [`), 0o644))

	res := do(t, srv, http.MethodGet, "/peliculas", "")

	assert.Equal(t, http.StatusInternalServerError, res.code)
	assert.Equal(t, "internal server error", res.body["error"])
	assert.NotContains(t, res.raw, path)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimitRequests = 2
	cfg.Security.RateLimitWindow = time.Hour
	srv := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "").code)
	}

	limited := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, limited.code)
	assert.Equal(t, "rate limit exceeded", limited.body["error"])
}

func TestServer_DetailedHealthHidesStorageErrors(t *testing.T) {
	cfg := testConfig(t)
	srv := newTestServer(t, cfg)
	require.NoError(t, os.RemoveAll(cfg.Storage.DataDir))

	res := do(t, srv, http.MethodGet, "/health/detailed", "")

	assert.Equal(t, http.StatusServiceUnavailable, res.code)
	assert.Equal(t, "error", res.body["status"])
	storage := res.body["checks"].(map[string]interface{})["storage"].(map[string]interface{})
	assert.Equal(t, "storage_not_writable", storage["reason"])
	assert.NotContains(t, res.raw, cfg.Storage.DataDir)
}

func TestServer_RequestLogsCarryRequestID(t *testing.T) {
	cfg := testConfig(t)
	dir, err := storage.Open(cfg.Storage)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	srv, err := New(cfg, dir, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	require.NoError(t, err)

	ok := do(t, srv, http.MethodGet, "/health", "", echo.HeaderXRequestID, "req-ok")
	require.Equal(t, http.StatusOK, ok.code)

	served := logs.FilterMessage("HTTP request").All()
	require.Len(t, served, 1)
	fields := served[0].ContextMap()
	assert.Equal(t, "req-ok", fields["request_id"])
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status_code"])

	path := filepath.Join(cfg.Storage.DataDir, cfg.Storage.MoviesFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"peliculas": [`), 0o644))

	failed := do(t, srv, http.MethodGet, "/peliculas", "", echo.HeaderXRequestID, "req-fail")
	require.Equal(t, http.StatusInternalServerError, failed.code)

	internal := logs.FilterMessage("Internal server error").All()
	require.Len(t, internal, 1)
	assert.Equal(t, "req-fail", internal[0].ContextMap()["request_id"])
	assert.Equal(t, "storage", internal[0].ContextMap()["kind"])
	assert.NotEmpty(t, internal[0].ContextMap()["error"])

	failedRequests := logs.FilterMessage("HTTP request failed").All()
	require.Len(t, failedRequests, 1)
	assert.Equal(t, "req-fail", failedRequests[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusInternalServerError, failedRequests[0].ContextMap()["status_code"])
}

func TestServer_NonJSONBodyIsBadRequest(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/peliculas", strings.NewReader("Dune"))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "request body must be application/json")
}

func TestServer_StaminaSaturatesOnHugeAmount(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	created := do(t, srv, http.MethodPost, "/adventurers", `{"name":"Aria","skills":["magia"]}`)
	require.Equal(t, http.StatusCreated, created.code, created.raw)

	res := do(t, srv, http.MethodPost, "/adventurers/1/stamina", `{"amount":9223372036854775807}`)
	require.Equal(t, http.StatusOK, res.code, res.raw)

	dec := json.NewDecoder(strings.NewReader(res.raw))
	dec.UseNumber()
	var adventurer map[string]interface{}
	require.NoError(t, dec.Decode(&adventurer))
	assert.Equal(t, json.Number("9223372036854775807"), adventurer["stamina"])
}
