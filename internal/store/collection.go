package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
)

// Collection reads and rewrites an ordered sequence of T stored under one name.
type Collection[T any] struct {
	backend Backend
	codec   Codec
	name    string
}

func NewCollection[T any](b Backend, c Codec, name string) *Collection[T] {
	return &Collection[T]{backend: b, codec: c, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// ReadAll returns the stored items. A collection that was never written is
// empty, not an error.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx, c.name)
	if errors.Is(err, ErrNoData) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := c.codec.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// WriteAll replaces the stored collection with items.
func (c *Collection[T]) WriteAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := c.codec.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, data); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

// Document stores a single value of T under one name.
type Document[T any] struct {
	backend Backend
	codec   Codec
	name    string
}

func NewDocument[T any](b Backend, c Codec, name string) *Document[T] {
	return &Document[T]{backend: b, codec: c, name: name}
}

func (d *Document[T]) Name() string { return d.name }

// Read decodes the stored value. ok is false when nothing was stored yet.
func (d *Document[T]) Read(ctx context.Context) (v T, ok bool, err error) {
	data, err := d.backend.Read(ctx, d.name)
	if errors.Is(err, ErrNoData) {
		return v, false, nil
	}
	if err != nil {
		return v, false, fmt.Errorf("read %s: %w", d.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return v, false, nil
	}
	if err := d.codec.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", d.name, err)
	}
	return v, true, nil
}

// Write replaces the stored value.
func (d *Document[T]) Write(ctx context.Context, v T) error {
	data, err := d.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.name, err)
	}
	if err := d.backend.Write(ctx, d.name, data); err != nil {
		return fmt.Errorf("write %s: %w", d.name, err)
	}
	return nil
}
