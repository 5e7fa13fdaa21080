package services

import (
	"context"
	"sync"

	"github.com/practicas/core/internal/ports"
)

// collection serialises the write paths of one resource and assigns ids.
// Writes hold mu from the first load until the final save.
type collection[T ports.Record] struct {
	repo ports.Repository[T]

	mu     sync.Mutex
	lastID int
}

func newCollection[T ports.Record](repo ports.Repository[T]) *collection[T] {
	return &collection[T]{repo: repo}
}

// insert assigns the next id to the record produced by build and persists it
func (c *collection[T]) insert(ctx context.Context, build func(id int) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	all, err := c.repo.GetAll(ctx)
	if err != nil {
		return zero, err
	}

	id := c.nextID(all)
	created, err := c.repo.Create(ctx, build(id))
	if err != nil {
		return zero, err
	}
	c.lastID = id

	return created, nil
}

// nextID is max(existing ids)+1, never lower than an id this process already handed out
func (c *collection[T]) nextID(all []T) int {
	highest := c.lastID
	for _, rec := range all {
		if rec.RecordID() > highest {
			highest = rec.RecordID()
		}
	}
	return highest + 1
}

func (c *collection[T]) update(ctx context.Context, id int, partial interface{}) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.repo.Update(ctx, id, partial)
}

// updateChecked runs check against the stored record before merging its partial
func (c *collection[T]) updateChecked(ctx context.Context, id int, check func(current T) (interface{}, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	current, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return zero, err
	}

	partial, err := check(current)
	if err != nil {
		return zero, err
	}

	return c.repo.Update(ctx, id, partial)
}

func (c *collection[T]) remove(ctx context.Context, id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.repo.Delete(ctx, id)
}
