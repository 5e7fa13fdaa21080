package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/ports"
)

// BookHandler handles library requests
type BookHandler struct {
	bookService ports.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService ports.BookService) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// ListBooks godoc
// @Summary List books
// @Description List books, optionally filtered by genre, author and availability
// @Tags libros
// @Produce json
// @Param genero query string false "Genre"
// @Param autor query string false "Author substring"
// @Param disponible query bool false "Availability"
// @Success 200 {array} entities.Book
// @Failure 400 {object} ErrorResponse
// @Router /libros [get]
func (h *BookHandler) ListBooks(c echo.Context) error {
	var filter ports.BookFilter
	if err := bindQuery(c, &filter); err != nil {
		return err
	}

	books, err := h.bookService.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get book by ID
// @Tags libros
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} entities.Book
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /libros/{id} [get]
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

// CreateBook godoc
// @Summary Create a book
// @Description Adds an available book with no loans
// @Tags libros
// @Accept json
// @Produce json
// @Param request body ports.CreateBookRequest true "Book data"
// @Success 201 {object} entities.Book
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /libros [post]
func (h *BookHandler) CreateBook(c echo.Context) error {
	var req ports.CreateBookRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	book, err := h.bookService.CreateBook(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary Update a book
// @Tags libros
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param request body ports.UpdateBookRequest true "Fields to change"
// @Success 200 {object} entities.Book
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /libros/{id} [patch]
func (h *BookHandler) UpdateBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateBookRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	book, err := h.bookService.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags libros
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} entities.Book
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /libros/{id} [delete]
func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.DeleteBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

// LoanBook godoc
// @Summary Loan a book
// @Description Marks an available book as loaned and counts the loan
// @Tags libros
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} entities.Book
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /libros/{id}/prestar [post]
func (h *BookHandler) LoanBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.LoanBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

// ReturnBook godoc
// @Summary Return a book
// @Tags libros
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} entities.Book
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /libros/{id}/devolver [post]
func (h *BookHandler) ReturnBook(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	book, err := h.bookService.ReturnBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}
