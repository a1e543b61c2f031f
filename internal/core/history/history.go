// Package history provides bounded undo/redo over immutable snapshots.
//
// A Manager keeps two stacks. The top of the undo stack is the current state
// and the bottom is the baseline; Undo never pops the last remaining entry.
// Saving a new state clears the redo stack. When the undo stack is full the
// oldest entry is evicted to make room:
//
//	h, _ := history.New[*cart.Snapshot](50)
//	h.Save(c) // baseline
//
//	c.Add("A", "Apple", 2, 1000)
//	h.Save(c)
//
//	h.Undo(c) // cart is empty again
//	h.Redo(c) // cart holds A:2
package history

import (
	"errors"
	"fmt"

	"github.com/gammazero/deque"
)

var (
	// ErrNothingToUndo is returned when only the baseline remains.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrInvalidArgument is returned when the manager is misconfigured.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidCapacity is returned by New for a non-positive capacity.
	ErrInvalidCapacity = fmt.Errorf("%w: capacity must be positive", ErrInvalidArgument)
)

// Originator produces snapshots of its state and restores from them.
type Originator[S any] interface {
	Snapshot() S
	Restore(S) error
}

// Manager tracks undo/redo history for a single originator.
//
// A Manager is not safe for concurrent use.
type Manager[S any] struct {
	undo     deque.Deque[S] // front = oldest, back = current
	redo     deque.Deque[S] // back = next to redo
	capacity int
	evicted  int
}

// New creates a manager whose undo stack holds at most capacity snapshots.
func New[S any](capacity int) (*Manager[S], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	return &Manager[S]{capacity: capacity}, nil
}

// Save snapshots o and pushes it as the new current state. The oldest entry
// is evicted if the undo stack is full. The redo stack is cleared.
func (m *Manager[S]) Save(o Originator[S]) {
	snap := o.Snapshot()

	if m.undo.Len() >= m.capacity {
		m.undo.PopFront()
		m.evicted++
	}

	m.undo.PushBack(snap)
	m.redo.Clear()
}

// Undo moves the current state to the redo stack and restores o from the
// previous one. The baseline is never popped.
func (m *Manager[S]) Undo(o Originator[S]) error {
	if m.undo.Len() <= 1 {
		return ErrNothingToUndo
	}

	current := m.undo.PopBack()
	if err := o.Restore(m.undo.Back()); err != nil {
		m.undo.PushBack(current)
		return fmt.Errorf("restore previous state: %w", err)
	}

	m.redo.PushBack(current)
	return nil
}

// Redo moves the most recently undone state back onto the undo stack and
// restores o from it.
func (m *Manager[S]) Redo(o Originator[S]) error {
	if m.redo.Len() == 0 {
		return ErrNothingToRedo
	}

	next := m.redo.Back()
	if err := o.Restore(next); err != nil {
		return fmt.Errorf("restore next state: %w", err)
	}

	m.redo.PopBack()
	m.undo.PushBack(next)
	return nil
}

// Clear empties both stacks. Save must be called again to establish a
// baseline before Undo can succeed.
func (m *Manager[S]) Clear() {
	m.undo.Clear()
	m.redo.Clear()
}

// Current returns the top of the undo stack.
func (m *Manager[S]) Current() (S, bool) {
	if m.undo.Len() == 0 {
		var zero S
		return zero, false
	}
	return m.undo.Back(), true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager[S]) CanUndo() bool {
	return m.undo.Len() > 1
}

// CanRedo reports whether Redo would succeed.
func (m *Manager[S]) CanRedo() bool {
	return m.redo.Len() > 0
}

// Depth returns the size of the undo stack, baseline included.
func (m *Manager[S]) Depth() int {
	return m.undo.Len()
}

// RedoDepth returns the size of the redo stack.
func (m *Manager[S]) RedoDepth() int {
	return m.redo.Len()
}

// Capacity returns the maximum size of the undo stack.
func (m *Manager[S]) Capacity() int {
	return m.capacity
}

// Evicted returns how many entries have been dropped from the bottom of the
// undo stack because it was full.
func (m *Manager[S]) Evicted() int {
	return m.evicted
}

// Entries returns the undo stack, oldest first.
func (m *Manager[S]) Entries() []S {
	out := make([]S, m.undo.Len())
	for i := range out {
		out[i] = m.undo.At(i)
	}
	return out
}

// RedoEntries returns the redo stack, next redo first.
func (m *Manager[S]) RedoEntries() []S {
	n := m.redo.Len()
	out := make([]S, n)
	for i := range out {
		out[i] = m.redo.At(n - 1 - i)
	}
	return out
}
