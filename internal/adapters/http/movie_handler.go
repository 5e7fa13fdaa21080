package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/ports"
)

// MovieHandler handles movie catalog requests
type MovieHandler struct {
	movieService ports.MovieService
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(movieService ports.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// ListMovies godoc
// @Summary List movies
// @Description List movies, optionally filtered by genre, year and director
// @Tags peliculas
// @Produce json
// @Param genero query string false "Genre (case-insensitive)"
// @Param año query int false "Release year"
// @Param director query string false "Director substring"
// @Success 200 {array} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Router /peliculas [get]
func (h *MovieHandler) ListMovies(c echo.Context) error {
	var filter ports.MovieFilter
	if err := bindQuery(c, &filter); err != nil {
		return err
	}

	movies, err := h.movieService.ListMovies(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movies)
}

// SearchByGenre godoc
// @Summary Search movies by genre
// @Tags peliculas
// @Produce json
// @Param genero query string true "Genre (case-insensitive)"
// @Success 200 {array} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Router /peliculas/buscar/genero [get]
func (h *MovieHandler) SearchByGenre(c echo.Context) error {
	genre, err := requireQuery(c, "genero")
	if err != nil {
		return err
	}

	movies, err := h.movieService.ListMovies(c.Request().Context(), ports.MovieFilter{Genre: genre})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movies)
}

// SearchByYear godoc
// @Summary Search movies by year
// @Tags peliculas
// @Produce json
// @Param anio query int true "Release year"
// @Success 200 {array} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Router /peliculas/buscar/anio [get]
func (h *MovieHandler) SearchByYear(c echo.Context) error {
	year, err := requireQuery(c, "anio")
	if err != nil {
		return err
	}

	movies, err := h.movieService.ListMovies(c.Request().Context(), ports.MovieFilter{Year: year})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movies)
}

// GetMovie godoc
// @Summary Get movie by ID
// @Tags peliculas
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /peliculas/{id} [get]
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	movie, err := h.movieService.GetMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movie)
}

// CreateMovie godoc
// @Summary Create a movie
// @Tags peliculas
// @Accept json
// @Produce json
// @Param request body ports.CreateMovieRequest true "Movie data"
// @Success 201 {object} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /peliculas [post]
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req ports.CreateMovieRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	movie, err := h.movieService.CreateMovie(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, movie)
}

// UpdateMovie godoc
// @Summary Update a movie
// @Tags peliculas
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param request body ports.UpdateMovieRequest true "Fields to change"
// @Success 200 {object} entities.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /peliculas/{id} [patch]
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateMovieRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	movie, err := h.movieService.UpdateMovie(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movie)
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Tags peliculas
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} entities.Movie
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /peliculas/{id} [delete]
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	movie, err := h.movieService.DeleteMovie(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, movie)
}
