package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/practicas/core/docs"
	httpHandlers "github.com/practicas/core/internal/adapters/http"
	"github.com/practicas/core/internal/adapters/repository"
	"github.com/practicas/core/internal/application/services"
	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/config"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/infrastructure/metrics"
	"github.com/practicas/core/internal/infrastructure/storage"
	"github.com/practicas/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	dir     *storage.Dir
	metrics *metrics.Metrics
}

type handlers struct {
	students    *httpHandlers.StudentHandler
	movies      *httpHandlers.MovieHandler
	books       *httpHandlers.BookHandler
	adventurers *httpHandlers.AdventurerHandler
}

// New creates a new server instance
func New(cfg *config.Config, dir *storage.Dir, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	validator := validation.New()
	e.Validator = validator

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	storeLogger := appLogger.WithComponent("store")

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(newStore[entities.Student](dir, cfg.Storage.StudentsFile, entities.StudentsCollection, storeLogger, m))
	movieRepo := repository.NewMovieRepository(newStore[entities.Movie](dir, cfg.Storage.MoviesFile, entities.MoviesCollection, storeLogger, m))
	bookRepo := repository.NewBookRepository(newStore[entities.Book](dir, cfg.Storage.BooksFile, entities.BooksCollection, storeLogger, m))
	adventurerRepo := repository.NewAdventurerRepository(newStore[entities.Adventurer](dir, cfg.Storage.AdventurersFile, entities.AdventurersCollection, storeLogger, m))

	// Initialize services
	authService := services.NewAuthService(cfg.Auth, appLogger)
	studentService := services.NewStudentService(studentRepo, validator, appLogger)
	movieService := services.NewMovieService(movieRepo, validator, appLogger)
	bookService := services.NewBookService(bookRepo, validator, appLogger)
	adventurerService := services.NewAdventurerService(adventurerRepo, validator, appLogger)

	// Initialize handlers
	h := handlers{
		students:    httpHandlers.NewStudentHandler(studentService),
		movies:      httpHandlers.NewMovieHandler(movieService),
		books:       httpHandlers.NewBookHandler(bookService),
		adventurers: httpHandlers.NewAdventurerHandler(adventurerService),
	}

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		dir:     dir,
		metrics: m,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(h, authService)

	// Setup metrics
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}

	return server, nil
}

func newStore[T any](dir *storage.Dir, file, collection string, log *logger.Logger, m *metrics.Metrics) ports.Store[T] {
	jsonFile := storage.NewJSONFile[T](dir.File(file), collection)
	store := storage.WithLogging[T](jsonFile, jsonFile.Key(), log)
	return metrics.InstrumentStore(store, jsonFile.Key(), m)
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			log := s.logger.WithRequestID(values.RequestID)
			if principal := principalFromContext(c); principal != nil {
				log = log.WithFields("subject", principal.Subject, "auth_method", principal.Method)
			}
			if values.Error != nil {
				log = log.WithError(values.Error)
			}

			log.LogHTTPRequest(
				values.Method,
				values.URI,
				values.UserAgent,
				values.RemoteIP,
				values.Status,
				float64(values.Latency.Nanoseconds())/1000000,
			)

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))

	// Rate limiting middleware
	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      requestsPerSecond(s.config.Security.RateLimitRequests, s.config.Security.RateLimitWindow),
					Burst:     s.config.Security.RateLimitRequests,
					ExpiresIn: s.config.Security.RateLimitWindow,
				},
			),
			IdentifierExtractor: func(ctx echo.Context) (string, error) {
				return ctx.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, "rate limit identifier unavailable")
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			},
		}))
	}

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	// Body size limit
	if s.config.Server.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.Server.BodyLimit))
	}

	// Metrics middleware
	if s.metrics != nil {
		s.echo.Use(s.metrics.Middleware())
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers, authService ports.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Swagger documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	s.echo.GET("/hola", httpHandlers.Hello)

	var write []echo.MiddlewareFunc
	if s.config.Auth.Enabled {
		write = append(write, s.authMiddleware(authService))
	}

	// Resources are served at the root and again under /api/v1
	for _, g := range []*echo.Group{s.echo.Group(""), s.echo.Group("/api/v1")} {
		students := g.Group("/estudiantes")
		students.GET("", h.students.ListStudents)
		students.GET("/buscar/carrera", h.students.SearchByMajor)
		students.GET("/:id", h.students.GetStudent)
		students.POST("", h.students.CreateStudent, write...)
		students.PATCH("/:id", h.students.UpdateStudent, write...)
		students.DELETE("/:id", h.students.DeleteStudent, write...)
		students.POST("/:id/subir-nivel", h.students.LevelUp, write...)

		movies := g.Group("/peliculas")
		movies.GET("", h.movies.ListMovies)
		movies.GET("/buscar/genero", h.movies.SearchByGenre)
		movies.GET("/buscar/anio", h.movies.SearchByYear)
		movies.GET("/:id", h.movies.GetMovie)
		movies.POST("", h.movies.CreateMovie, write...)
		movies.PATCH("/:id", h.movies.UpdateMovie, write...)
		movies.DELETE("/:id", h.movies.DeleteMovie, write...)

		books := g.Group("/libros")
		books.GET("", h.books.ListBooks)
		books.GET("/:id", h.books.GetBook)
		books.POST("", h.books.CreateBook, write...)
		books.PATCH("/:id", h.books.UpdateBook, write...)
		books.DELETE("/:id", h.books.DeleteBook, write...)
		books.POST("/:id/prestar", h.books.LoanBook, write...)
		books.POST("/:id/devolver", h.books.ReturnBook, write...)

		adventurers := g.Group("/adventurers")
		adventurers.GET("", h.adventurers.ListAdventurers)
		adventurers.GET("/:id", h.adventurers.GetAdventurer)
		adventurers.POST("", h.adventurers.CreateAdventurer, write...)
		adventurers.PATCH("/:id", h.adventurers.UpdateAdventurer, write...)
		adventurers.DELETE("/:id", h.adventurers.DeleteAdventurer, write...)
		adventurers.POST("/:id/stamina", h.adventurers.AdjustStamina, write...)
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.dir.HealthCheck(); err != nil {
		s.logger.Warnw("Detailed health check failed", "error", err)
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status": "error",
			"reason": "storage_not_writable",
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status": "ok",
			"files":  s.dir.GetInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.dir.HealthCheck(); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_writable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets the server be driven directly, as in tests
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

func requestsPerSecond(requests int, window time.Duration) rate.Limit {
	if window <= 0 {
		return rate.Limit(requests)
	}
	return rate.Limit(float64(requests) / window.Seconds())
}

// customErrorHandler writes every error as an ErrorResponse
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := httpHandlers.StatusFor(err)

		if code >= http.StatusInternalServerError {
			logger.WithRequestID(c.Response().Header().Get(echo.HeaderXRequestID)).
				WithError(err).
				Errorw("Internal server error",
					"kind", entities.KindOf(err).String(),
					"path", c.Request().URL.Path,
				)
		}

		// Send response
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, httpHandlers.NewErrorResponse(msg))
		}
		if err != nil {
			logger.Errorw("Error sending response", "error", err)
		}
	}
}
