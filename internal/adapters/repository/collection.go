package repository

import (
	"context"
	"encoding/json"

	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/ports"
)

// CollectionRepository implements ports.Repository on top of a whole-collection store
type CollectionRepository[T ports.Record] struct {
	store    ports.Store[T]
	resource string
}

// NewCollectionRepository creates a repository; resource names the record type in errors
func NewCollectionRepository[T ports.Record](store ports.Store[T], resource string) *CollectionRepository[T] {
	return &CollectionRepository[T]{store: store, resource: resource}
}

// NewStudentRepository creates the student repository
func NewStudentRepository(store ports.Store[entities.Student]) ports.Repository[entities.Student] {
	return NewCollectionRepository[entities.Student](store, "student")
}

// NewMovieRepository creates the movie repository
func NewMovieRepository(store ports.Store[entities.Movie]) ports.Repository[entities.Movie] {
	return NewCollectionRepository[entities.Movie](store, "movie")
}

// NewBookRepository creates the book repository
func NewBookRepository(store ports.Store[entities.Book]) ports.Repository[entities.Book] {
	return NewCollectionRepository[entities.Book](store, "book")
}

// NewAdventurerRepository creates the adventurer repository
func NewAdventurerRepository(store ports.Store[entities.Adventurer]) ports.Repository[entities.Adventurer] {
	return NewCollectionRepository[entities.Adventurer](store, "adventurer")
}

func (r *CollectionRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.store.Load(ctx)
}

func (r *CollectionRepository[T]) GetByID(ctx context.Context, id int) (T, error) {
	var zero T

	records, err := r.store.Load(ctx)
	if err != nil {
		return zero, err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return zero, entities.NewNotFoundError(r.resource, id)
	}

	return records[idx], nil
}

func (r *CollectionRepository[T]) Create(ctx context.Context, record T) (T, error) {
	var zero T

	records, err := r.store.Load(ctx)
	if err != nil {
		return zero, err
	}

	records = append(records, record)
	if err := r.store.Save(ctx, records); err != nil {
		return zero, err
	}

	return record, nil
}

func (r *CollectionRepository[T]) Update(ctx context.Context, id int, partial interface{}) (T, error) {
	var zero T

	records, err := r.store.Load(ctx)
	if err != nil {
		return zero, err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return zero, entities.NewNotFoundError(r.resource, id)
	}

	merged, err := merge(records[idx], partial)
	if err != nil {
		return zero, err
	}
	records[idx] = merged

	if err := r.store.Save(ctx, records); err != nil {
		return zero, err
	}

	return merged, nil
}

func (r *CollectionRepository[T]) Delete(ctx context.Context, id int) (T, error) {
	var zero T

	records, err := r.store.Load(ctx)
	if err != nil {
		return zero, err
	}

	idx := indexOf(records, id)
	if idx == -1 {
		return zero, entities.NewNotFoundError(r.resource, id)
	}

	removed := records[idx]
	records = append(records[:idx], records[idx+1:]...)

	if err := r.store.Save(ctx, records); err != nil {
		return zero, err
	}

	return removed, nil
}

func indexOf[T ports.Record](records []T, id int) int {
	for i, rec := range records {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}

// merge overlays the keys present in partial's JSON encoding onto record.
// Keys absent from the encoding keep their stored value, and the id is never changed.
func merge[T ports.Record](record T, partial interface{}) (T, error) {
	patch, err := json.Marshal(partial)
	if err != nil {
		return record, entities.NewInternalError("failed to encode update", err)
	}

	merged := record
	if err := json.Unmarshal(patch, &merged); err != nil {
		return record, entities.NewInternalError("failed to apply update", err)
	}

	if merged.RecordID() != record.RecordID() {
		return record, entities.NewValidationError("id is assigned by the server and cannot be changed")
	}

	return merged, nil
}
