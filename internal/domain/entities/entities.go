package entities

import "math"

// Enums and types
type MovieGenre string

const (
	MovieGenreAction         MovieGenre = "Acción"
	MovieGenreComedy         MovieGenre = "Comedia"
	MovieGenreDrama          MovieGenre = "Drama"
	MovieGenreHorror         MovieGenre = "Terror"
	MovieGenreScienceFiction MovieGenre = "Ciencia Ficción"
)

type BookGenre string

const (
	BookGenreFiction    BookGenre = "Ficción"
	BookGenreNonFiction BookGenre = "No Ficción"
	BookGenreScience    BookGenre = "Ciencia"
	BookGenreHistory    BookGenre = "Historia"
	BookGenreBiography  BookGenre = "Biografía"
)

// Domain constants
const (
	// PointsPerLevel is how many points a student spends per current level to level up.
	PointsPerLevel = 100

	InitialLevel   = 1
	InitialStamina = 100
)

// Collection keys, one per backing file
const (
	StudentsCollection    = "estudiantes"
	MoviesCollection      = "peliculas"
	BooksCollection       = "libros"
	AdventurersCollection = "adventurers"
)

// Student represents a student enrolled in a career
type Student struct {
	ID     int    `json:"id"`
	Name   string `json:"nombre"`
	Major  string `json:"carrera"`
	Level  int    `json:"nivel"`
	Points int    `json:"puntos"`
	Active bool   `json:"activo"`
}

// Movie represents a movie in the catalog
type Movie struct {
	ID       int        `json:"id"`
	Title    string     `json:"titulo"`
	Director string     `json:"director"`
	Year     int        `json:"año"`
	Genre    MovieGenre `json:"genero"`
	Rating   float64    `json:"calificacion"`
}

// Book represents a book that can be loaned out and returned
type Book struct {
	ID        int       `json:"id"`
	Title     string    `json:"titulo"`
	Author    string    `json:"autor"`
	Year      int       `json:"año"`
	Genre     BookGenre `json:"genero"`
	Available bool      `json:"disponible"`
	Loans     int       `json:"prestamos"`
}

// Adventurer represents an academy adventurer
type Adventurer struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Level      int      `json:"level"`
	Experience int      `json:"experience"`
	Stamina    int      `json:"stamina"`
	Skills     []string `json:"skills"`
}

func (s Student) RecordID() int    { return s.ID }
func (m Movie) RecordID() int      { return m.ID }
func (b Book) RecordID() int       { return b.ID }
func (a Adventurer) RecordID() int { return a.ID }

// PointsToLevelUp returns the points the student must spend to reach the next level
func (s Student) PointsToLevelUp() int {
	return s.Level * PointsPerLevel
}

// CanLevelUp reports whether the student has accumulated enough points
func (s Student) CanLevelUp() bool {
	return s.Points >= s.PointsToLevelUp()
}

// AdjustedStamina returns the stamina after applying amount, floored at zero
// and saturating at math.MaxInt
func (a Adventurer) AdjustedStamina(amount int) int {
	if amount > 0 && a.Stamina > math.MaxInt-amount {
		return math.MaxInt
	}
	stamina := a.Stamina + amount
	if stamina < 0 {
		return 0
	}
	return stamina
}
