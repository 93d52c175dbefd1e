// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

// Identifier is implemented by everything stored in a Container
type Identifier interface {
	GetId() int
}

// Container holds items in insertion order and indexes them by id
type Container[T Identifier] struct {
	items []T
	index map[int]int // id => position in items
}

// NewContainer returns an empty container
func NewContainer[T Identifier]() *Container[T] {
	return &Container[T]{index: make(map[int]int)}
}

// Insert appends item; returns false if an item with the same id is already stored
func (o *Container[T]) Insert(item T) bool {
	id := item.GetId()
	if _, ok := o.index[id]; ok {
		return false
	}
	o.index[id] = len(o.items)
	o.items = append(o.items, item)
	return true
}

// Remove deletes the item with id, keeping the order of the others
func (o *Container[T]) Remove(id int) bool {
	pos, ok := o.index[id]
	if !ok {
		return false
	}
	o.items = append(o.items[:pos], o.items[pos+1:]...)
	delete(o.index, id)
	for i := pos; i < len(o.items); i++ {
		o.index[o.items[i].GetId()] = i
	}
	return true
}

// Get returns the item with id
func (o *Container[T]) Get(id int) (item T, ok bool) {
	pos, ok := o.index[id]
	if !ok {
		return
	}
	return o.items[pos], true
}

// At returns the i-th item in insertion order
func (o *Container[T]) At(i int) T { return o.items[i] }

// Len returns the number of items
func (o *Container[T]) Len() int { return len(o.items) }

// Items returns a copy of the list of items
func (o *Container[T]) Items() []T { return append([]T{}, o.items...) }

// ForEach calls fcn for every item in insertion order
func (o *Container[T]) ForEach(fcn func(item T)) {
	for _, item := range o.items {
		fcn(item)
	}
}
