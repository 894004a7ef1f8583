package picker

import (
	"github.com/mj1618/cslogin/internal/apperr"
)

// Item is one selectable entry: the label shown to the user and the value
// returned when it is picked.
type Item[T any] struct {
	Label string
	Value T
}

// List is an immutable, non-empty sequence of items with a wrapping cursor.
type List[T any] struct {
	items  []Item[T]
	cursor int
}

// NewList copies items into a new list with the cursor on the first item.
func NewList[T any](items []Item[T]) (*List[T], error) {
	if len(items) == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "nothing to select from")
	}
	cp := make([]Item[T], len(items))
	copy(cp, items)
	return &List[T]{items: cp}, nil
}

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// Cursor returns the index of the highlighted item.
func (l *List[T]) Cursor() int { return l.cursor }

// Up moves the cursor one item up, wrapping from the first to the last.
func (l *List[T]) Up() {
	n := len(l.items)
	l.cursor = (l.cursor - 1 + n) % n
}

// Down moves the cursor one item down, wrapping from the last to the first.
func (l *List[T]) Down() {
	l.cursor = (l.cursor + 1) % len(l.items)
}

// Selected returns the item under the cursor.
func (l *List[T]) Selected() Item[T] { return l.items[l.cursor] }

// Labels returns the display labels in order.
func (l *List[T]) Labels() []string {
	labels := make([]string, len(l.items))
	for i, it := range l.items {
		labels[i] = it.Label
	}
	return labels
}
