package ports

import (
	"context"
)

// Record is anything stored in a collection under a unique integer id
type Record interface {
	RecordID() int
}

// Store defines how a whole collection is read from and written to its backing file.
// Load returns an empty collection when nothing has been persisted yet.
type Store[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
}

// Repository defines typed CRUD operations over one collection.
// Every mutating call is a single load-mutate-save cycle.
type Repository[T Record] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int) (T, error)
	Create(ctx context.Context, record T) (T, error)
	// Update merges the keys present in partial's JSON form onto the stored record
	Update(ctx context.Context, id int, partial interface{}) (T, error)
	Delete(ctx context.Context, id int) (T, error)
}
