package services

import (
	"context"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/domain/validation"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/ports"
)

// BookService handles library operations, including loans and returns
type BookService struct {
	books     *collection[entities.Book]
	validator *validation.Validator
	logger    *logger.Logger
}

// NewBookService creates a new book service
func NewBookService(repo ports.Repository[entities.Book], validator *validation.Validator, logger *logger.Logger) *BookService {
	return &BookService{
		books:     newCollection(repo),
		validator: validator,
		logger:    logger.WithCollection(entities.BooksCollection),
	}
}

// CreateBook adds an available book with no loans
func (s *BookService) CreateBook(ctx context.Context, req ports.CreateBookRequest) (*entities.Book, error) {
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	book, err := s.books.insert(ctx, func(id int) entities.Book {
		return entities.Book{
			ID:        id,
			Title:     req.Title,
			Author:    req.Author,
			Year:      req.Year,
			Genre:     entities.BookGenre(req.Genre),
			Available: true,
			Loans:     0,
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.BooksCollection, "create", book.ID, map[string]interface{}{
		"title": book.Title,
	})

	return &book, nil
}

// ListBooks returns the books matching every supplied filter
func (s *BookService) ListBooks(ctx context.Context, filter ports.BookFilter) ([]entities.Book, error) {
	if err := s.validator.Validate(&filter); err != nil {
		return nil, err
	}

	books, err := s.books.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return applyFilters(books,
		equalFold(filter.Genre, func(b entities.Book) string { return string(b.Genre) }),
		flag(filter.Available, func(b entities.Book) bool { return b.Available }),
		containsFold(filter.Author, func(b entities.Book) string { return b.Author }),
	), nil
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id int) (*entities.Book, error) {
	book, err := s.books.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// UpdateBook merges the supplied fields onto an existing book
func (s *BookService) UpdateBook(ctx context.Context, id int, req ports.UpdateBookRequest) (*entities.Book, error) {
	if _, err := s.books.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePatch(&req); err != nil {
		return nil, err
	}

	book, err := s.books.update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.BooksCollection, "update", id, nil)

	return &book, nil
}

// DeleteBook removes a book and returns it
func (s *BookService) DeleteBook(ctx context.Context, id int) (*entities.Book, error) {
	book, err := s.books.remove(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.BooksCollection, "delete", id, nil)

	return &book, nil
}

// LoanBook moves an available book to loaned and counts the loan
func (s *BookService) LoanBook(ctx context.Context, id int) (*entities.Book, error) {
	book, err := s.books.updateChecked(ctx, id, func(current entities.Book) (interface{}, error) {
		if !current.Available {
			return nil, entities.ErrBookUnavailable
		}

		return map[string]interface{}{
			"disponible": false,
			"prestamos":  current.Loans + 1,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.BooksCollection, "loan", id, map[string]interface{}{
		"loans": book.Loans,
	})

	return &book, nil
}

// ReturnBook moves a loaned book back to available
func (s *BookService) ReturnBook(ctx context.Context, id int) (*entities.Book, error) {
	book, err := s.books.updateChecked(ctx, id, func(current entities.Book) (interface{}, error) {
		if current.Available {
			return nil, entities.ErrBookAlreadyIn
		}

		return map[string]interface{}{
			"disponible": true,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogRecordAction(entities.BooksCollection, "return", id, nil)

	return &book, nil
}
