package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/practicas/core/internal/domain/entities"
)

// AuthService interface for the token stub
type AuthService interface {
	Authenticate(authorization string) (*Principal, error)
	IssueToken(subject string, ttl time.Duration) (string, error)
}

// StudentService interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*entities.Student, error)
	ListStudents(ctx context.Context, filter StudentFilter) ([]entities.Student, error)
	GetStudent(ctx context.Context, id int) (*entities.Student, error)
	UpdateStudent(ctx context.Context, id int, req UpdateStudentRequest) (*entities.Student, error)
	DeleteStudent(ctx context.Context, id int) (*entities.Student, error)
	LevelUp(ctx context.Context, id int) (*entities.Student, error)
}

// MovieService interface for movie catalog operations
type MovieService interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*entities.Movie, error)
	ListMovies(ctx context.Context, filter MovieFilter) ([]entities.Movie, error)
	GetMovie(ctx context.Context, id int) (*entities.Movie, error)
	UpdateMovie(ctx context.Context, id int, req UpdateMovieRequest) (*entities.Movie, error)
	DeleteMovie(ctx context.Context, id int) (*entities.Movie, error)
}

// BookService interface for library operations
type BookService interface {
	CreateBook(ctx context.Context, req CreateBookRequest) (*entities.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) ([]entities.Book, error)
	GetBook(ctx context.Context, id int) (*entities.Book, error)
	UpdateBook(ctx context.Context, id int, req UpdateBookRequest) (*entities.Book, error)
	DeleteBook(ctx context.Context, id int) (*entities.Book, error)
	LoanBook(ctx context.Context, id int) (*entities.Book, error)
	ReturnBook(ctx context.Context, id int) (*entities.Book, error)
}

// AdventurerService interface for academy operations
type AdventurerService interface {
	CreateAdventurer(ctx context.Context, req CreateAdventurerRequest) (*entities.Adventurer, error)
	ListAdventurers(ctx context.Context, filter AdventurerFilter) ([]entities.Adventurer, error)
	GetAdventurer(ctx context.Context, id int) (*entities.Adventurer, error)
	UpdateAdventurer(ctx context.Context, id int, req UpdateAdventurerRequest) (*entities.Adventurer, error)
	DeleteAdventurer(ctx context.Context, id int) (*entities.Adventurer, error)
	AdjustStamina(ctx context.Context, id int, req StaminaRequest) (*entities.Adventurer, error)
}

// Principal is the caller identified by the token stub
type Principal struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
	Method  string `json:"method"`
}

// Request/Response Types
//
// Create requests reject server-assigned fields: they decode into json.RawMessage,
// which stays nil unless the client sent the key.
// Update requests use pointers so only supplied fields are validated and merged.

// Student related types
type CreateStudentRequest struct {
	Name   string          `json:"nombre" validate:"required,notblank,min=3,max=100"`
	Major  string          `json:"carrera" validate:"required,notblank,max=100"`
	ID     json.RawMessage `json:"id" validate:"isdefault"`
	Level  json.RawMessage `json:"nivel" validate:"isdefault"`
	Points json.RawMessage `json:"puntos" validate:"isdefault"`
	Active json.RawMessage `json:"activo" validate:"isdefault"`
}

type UpdateStudentRequest struct {
	Name   *string         `json:"nombre,omitempty" validate:"omitempty,notblank,min=3,max=100"`
	Major  *string         `json:"carrera,omitempty" validate:"omitempty,notblank,max=100"`
	Points *int            `json:"puntos,omitempty" validate:"omitempty,min=0"`
	Active *bool           `json:"activo,omitempty"`
	ID     json.RawMessage `json:"id,omitempty" validate:"isdefault"`
	Level  json.RawMessage `json:"nivel,omitempty" validate:"isdefault"`
}

type StudentFilter struct {
	Major  string `query:"carrera"`
	Name   string `query:"nombre"`
	Level  string `query:"nivel" validate:"omitempty,number"`
	Active string `query:"activo" validate:"omitempty,oneof=true false"`
}

// Movie related types
type CreateMovieRequest struct {
	Title    string          `json:"titulo" validate:"required,notblank,max=200"`
	Director string          `json:"director" validate:"required,notblank,max=200"`
	Year     int             `json:"año" validate:"required,min=1900,max=2025"`
	Genre    string          `json:"genero" validate:"required,oneof=Acción Comedia Drama Terror 'Ciencia Ficción'"`
	Rating   *float64        `json:"calificacion" validate:"required,min=0,max=10"`
	ID       json.RawMessage `json:"id" validate:"isdefault"`
}

type UpdateMovieRequest struct {
	Title    *string         `json:"titulo,omitempty" validate:"omitempty,notblank,max=200"`
	Director *string         `json:"director,omitempty" validate:"omitempty,notblank,max=200"`
	Year     *int            `json:"año,omitempty" validate:"omitempty,min=1900,max=2025"`
	Genre    *string         `json:"genero,omitempty" validate:"omitempty,oneof=Acción Comedia Drama Terror 'Ciencia Ficción'"`
	Rating   *float64        `json:"calificacion,omitempty" validate:"omitempty,min=0,max=10"`
	ID       json.RawMessage `json:"id,omitempty" validate:"isdefault"`
}

type MovieFilter struct {
	Genre    string `query:"genero"`
	Year     string `query:"año" validate:"omitempty,number"`
	Director string `query:"director"`
}

// Book related types
type CreateBookRequest struct {
	Title     string          `json:"titulo" validate:"required,notblank,max=200"`
	Author    string          `json:"autor" validate:"required,notblank,max=200"`
	Year      int             `json:"año" validate:"required,min=1000,max=2025"`
	Genre     string          `json:"genero" validate:"required,oneof=Ficción 'No Ficción' Ciencia Historia Biografía"`
	ID        json.RawMessage `json:"id" validate:"isdefault"`
	Available json.RawMessage `json:"disponible" validate:"isdefault"`
	Loans     json.RawMessage `json:"prestamos" validate:"isdefault"`
}

type UpdateBookRequest struct {
	Title     *string         `json:"titulo,omitempty" validate:"omitempty,notblank,max=200"`
	Author    *string         `json:"autor,omitempty" validate:"omitempty,notblank,max=100"`
	Year      *int            `json:"año,omitempty" validate:"omitempty,min=1000,max=2025"`
	Genre     *string         `json:"genero,omitempty" validate:"omitempty,oneof=Ficción 'No Ficción' Ciencia Historia Biografía"`
	Available *bool           `json:"disponible,omitempty"`
	Loans     *int            `json:"prestamos,omitempty" validate:"omitempty,min=0"`
	ID        json.RawMessage `json:"id,omitempty" validate:"isdefault"`
}

type BookFilter struct {
	Genre     string `query:"genero" validate:"omitempty,oneof=Ficción 'No Ficción' Ciencia Historia Biografía"`
	Author    string `query:"autor"`
	Available string `query:"disponible" validate:"omitempty,oneof=true false"`
}

// Adventurer related types
type CreateAdventurerRequest struct {
	Name       string          `json:"name" validate:"required,notblank,max=100"`
	Skills     []string        `json:"skills" validate:"required,dive,required,notblank,max=50"`
	ID         json.RawMessage `json:"id" validate:"isdefault"`
	Level      json.RawMessage `json:"level" validate:"isdefault"`
	Experience json.RawMessage `json:"experience" validate:"isdefault"`
	Stamina    json.RawMessage `json:"stamina" validate:"isdefault"`
}

type UpdateAdventurerRequest struct {
	Name       *string         `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Skills     *[]string       `json:"skills,omitempty" validate:"omitempty,dive,required,notblank,max=50"`
	Level      *int            `json:"level,omitempty" validate:"omitempty,min=1,max=100"`
	Experience *int            `json:"experience,omitempty" validate:"omitempty,min=0"`
	ID         json.RawMessage `json:"id,omitempty" validate:"isdefault"`
	Stamina    json.RawMessage `json:"stamina,omitempty" validate:"isdefault"`
}

type AdventurerFilter struct {
	Skill    string `query:"skill"`
	MinLevel string `query:"minLevel" validate:"omitempty,number"`
}

// StaminaRequest carries only the transition's own parameter
type StaminaRequest struct {
	Amount *int `json:"amount" validate:"required"`
}
