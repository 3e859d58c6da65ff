package domain

import (
	"fmt"
	"iter"
)

// Registry stores items by their small positive ids in a dense slice.
// Iteration follows first-insertion order.
type Registry struct {
	slots []*Item
	order []int
}

func NewRegistry(size int) *Registry {
	if size < 0 {
		size = 0
	}
	return &Registry{slots: make([]*Item, size+1)}
}

// Put inserts or replaces the item stored under item.ID.
func (r *Registry) Put(item *Item) error {
	if item == nil || item.ID <= 0 {
		return fmt.Errorf("registry put: item id must be positive: %w", ErrInvalidInput)
	}

	if item.ID >= len(r.slots) {
		grown := make([]*Item, item.ID+1)
		copy(grown, r.slots)
		r.slots = grown
	}

	if r.slots[item.ID] == nil {
		r.order = append(r.order, item.ID)
	}
	r.slots[item.ID] = item
	return nil
}

func (r *Registry) Get(id int) (*Item, error) {
	if id <= 0 || id >= len(r.slots) || r.slots[id] == nil {
		return nil, fmt.Errorf("registry get: item %d: %w", id, ErrNotFound)
	}
	return r.slots[id], nil
}

// All yields every item in insertion order. The sequence can be ranged over repeatedly.
func (r *Registry) All() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for _, id := range r.order {
			if !yield(r.slots[id]) {
				return
			}
		}
	}
}

func (r *Registry) Len() int { return len(r.order) }
