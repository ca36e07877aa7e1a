package store

import (
	"context"
	"sync"

	"forummini/pkg/domain"
)

// Repository is the typed CRUD surface over one collection.
//
// Every call runs a full load, modify, save cycle under the repository
// mutex, so writers in one process are serialized per collection. Other
// processes sharing the same backend are not covered by the lock.
type Repository[T domain.Entity[T]] struct {
	mu     sync.Mutex
	entity string
	docs   *Collection[T]
}

// NewRepository wraps docs with id assignment and not-found semantics.
func NewRepository[T domain.Entity[T]](entity string, docs *Collection[T]) *Repository[T] {
	return &Repository[T]{entity: entity, docs: docs}
}

// Entity returns the entity name used in errors.
func (r *Repository[T]) Entity() string {
	return r.entity
}

// Add assigns max(existing ids)+1 to item, ignoring any id it carries,
// appends it and saves.
func (r *Repository[T]) Add(ctx context.Context, item T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	items, err := r.docs.Load(ctx)
	if err != nil {
		return zero, err
	}
	item = item.WithID(nextID(items))
	items = append(items, item)
	if err := r.docs.Save(ctx, items); err != nil {
		return zero, err
	}
	return item, nil
}

// Update replaces the record with item's id in place.
func (r *Repository[T]) Update(ctx context.Context, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.docs.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, item.EntityID())
	if idx < 0 {
		return domain.NotFound(r.entity, item.EntityID())
	}
	items[idx] = item
	return r.docs.Save(ctx, items)
}

// Delete removes the record with id.
func (r *Repository[T]) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.docs.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return domain.NotFound(r.entity, id)
	}
	items = append(items[:idx], items[idx+1:]...)
	return r.docs.Save(ctx, items)
}

// GetSingle returns the record with id.
func (r *Repository[T]) GetSingle(ctx context.Context, id int) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	items, err := r.docs.Load(ctx)
	if err != nil {
		return zero, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return zero, domain.NotFound(r.entity, id)
	}
	return items[idx], nil
}

// GetMany returns the whole collection in stored order.
func (r *Repository[T]) GetMany(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.docs.Load(ctx)
}

func nextID[T domain.Entity[T]](items []T) int {
	maxID := 0
	for _, item := range items {
		if id := item.EntityID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func indexOf[T domain.Entity[T]](items []T, id int) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
