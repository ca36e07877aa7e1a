package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"forummini/pkg/domain"
)

var emptyDocument = []byte("[]")

// Observer receives timing for every document load and save.
type Observer interface {
	ObserveDocument(name, op string, elapsed time.Duration, err error)
}

// Collection loads and saves one JSON array document through a Backend.
// It holds no state between calls; the backend copy is authoritative.
type Collection[T any] struct {
	backend  Backend
	name     string
	observer Observer
}

// NewCollection binds a collection to the named document.
func NewCollection[T any](backend Backend, name string, observer Observer) *Collection[T] {
	return &Collection[T]{backend: backend, name: name, observer: observer}
}

// Name returns the document name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Init creates an empty document when none exists.
func (c *Collection[T]) Init(ctx context.Context) error {
	if err := c.backend.Init(ctx, c.name, emptyDocument); err != nil {
		return domain.Persistence("init "+c.name, err)
	}
	return nil
}

// Load reads the whole document, initializing it first when absent.
func (c *Collection[T]) Load(ctx context.Context) (items []T, err error) {
	start := time.Now()
	defer func() { c.observe("load", start, err) }()

	data, err := c.backend.Read(ctx, c.name)
	if errors.Is(err, ErrDocumentMissing) {
		if err := c.Init(ctx); err != nil {
			return nil, err
		}
		data, err = c.backend.Read(ctx, c.name)
	}
	if err != nil {
		return nil, domain.Persistence("read "+c.name, err)
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, domain.Persistence("decode "+c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	slog.Debug("collection loaded", "collection", c.name, "count", len(items))
	return items, nil
}

// Save serializes items and replaces the document in full.
func (c *Collection[T]) Save(ctx context.Context, items []T) (err error) {
	start := time.Now()
	defer func() { c.observe("save", start, err) }()

	data, err := Encode(items)
	if err != nil {
		return domain.Persistence("encode "+c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, data); err != nil {
		return domain.Persistence("write "+c.name, err)
	}
	slog.Debug("collection saved", "collection", c.name, "count", len(items))
	return nil
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveDocument(c.name, op, time.Since(start), err)
}

// Encode renders items the way documents are stored: a compact JSON array,
// "[]" when empty.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
