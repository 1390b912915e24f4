// Package cell provides a shared cell: a value owned by a Cell which
// hands out mutable or read-only views of that value to anyone holding
// a copy of the Cell.
//
// Two access styles are offered. BorrowMut and Borrow return raw
// pointers and check nothing; the caller alone guarantees that a
// mutable view never overlaps another view. Handles, obtained with
// Acquire and AcquireShared, are counted by the cell, so an overlapping
// mutable and read-only view fails loudly instead of silently aliasing.
package cell

import (
	"fmt"
	"sync"
)

// Cell owns a single value; copies of a Cell always refer to the same
// value and the same borrow state, so a modification through any copy
// is visible from all copies.
//
// A Cell does not serialize access to its value. Use it from one
// goroutine at a time, or wrap it in an atom.Atom.
type Cell[T any] struct {
	state *state[T]
}

type state[T any] struct {
	// mutex guards the borrow accounting below, never the value.
	mutex     sync.Mutex
	value     *T
	shared    int
	exclusive bool

	logf  func(line string)
	name  string
	group *Group[T]
}

func printLine(line string) {
	fmt.Println(line)
}

// New() creates a new Cell owning 'value'.
func New[T any](value T) Cell[T] {
	return Cell[T]{
		state: &state[T]{
			value: &value,
			logf:  printLine,
		},
	}
}

// Dead() creates a dead Cell; it replaces the uses of nil pointers when
// we want to represent optionality.
func Dead[T any]() Cell[T] {
	return Cell[T]{
		state: &state[T]{logf: printLine},
	}
}

// IsDead() returns true if the cell holds no value.
func (this Cell[T]) IsDead() bool {
	if this.state == nil {
		return true
	}

	this.state.mutex.Lock()
	defer this.state.mutex.Unlock()
	return this.state.value == nil
}

// Name returns the name the cell was registered with in a Group, or an
// empty string.
func (this Cell[T]) Name() string {
	if this.state == nil {
		return ""
	}
	return this.state.name
}

// SetLogf sets the destination of the line written whenever one of the
// cell's handles is released. A nil logf discards those lines.
func (this Cell[T]) SetLogf(logf func(line string)) {
	if this.state == nil {
		return
	}

	this.state.mutex.Lock()
	defer this.state.mutex.Unlock()
	this.state.logf = logf
}

// BorrowMut returns a mutable view of the value.
//
// The borrow state is not consulted: the caller must ensure no other
// view of the value, from BorrowMut, Borrow or a Handle, is used while
// the returned pointer is. BorrowMut *panics* if the cell is dead.
func (this Cell[T]) BorrowMut() *T {
	return this.unchecked("borrow mut")
}

// Borrow returns a view of the value that must only be read through.
//
// The caller must ensure no mutable view is used while the returned
// pointer is. Borrow *panics* if the cell is dead.
func (this Cell[T]) Borrow() *T {
	return this.unchecked("borrow")
}

func (this Cell[T]) unchecked(op string) *T {
	if this.state == nil {
		panic(&BorrowError{Op: op, Err: ErrDead})
	}

	this.state.mutex.Lock()
	defer this.state.mutex.Unlock()

	if this.state.value == nil {
		panic(this.state.fail(op, ErrDead))
	}
	return this.state.value
}

// Borrows reports the number of live shared handles and whether an
// exclusive handle is live.
func (this Cell[T]) Borrows() (shared int, exclusive bool) {
	if this.state == nil {
		return 0, false
	}

	this.state.mutex.Lock()
	defer this.state.mutex.Unlock()
	return this.state.shared, this.state.exclusive
}

// IsBorrowed returns true while any handle of the cell is live.
func (this Cell[T]) IsBorrowed() bool {
	shared, exclusive := this.Borrows()
	return exclusive || shared > 0
}

// Use acquires an exclusive handle, passes the value to 'handler' and
// releases the handle once 'handler' returns.
func (this Cell[T]) Use(handler func(*T)) error {
	handle, err := this.TryAcquire()
	if err != nil {
		return err
	}
	defer handle.Release()

	handler(handle.Deref())
	return nil
}

// Read acquires a shared handle and passes a copy of the value to
// 'handler'.
func (this Cell[T]) Read(handler func(T)) error {
	handle, err := this.TryAcquireShared()
	if err != nil {
		return err
	}
	defer handle.Release()

	handler(handle.Get())
	return nil
}

// Replace stores 'value' in the cell and returns the value it held.
func (this Cell[T]) Replace(value T) (T, error) {
	var previous T
	err := this.Use(func(current *T) {
		previous = *current
		*current = value
	})
	return previous, err
}

// Drop destroys the cell's value; every copy of the cell becomes dead.
// Drop fails while handles are live, so no handle outlives the value
// it was acquired for.
func (this Cell[T]) Drop() error {
	if this.state == nil {
		return &BorrowError{Op: "drop", Err: ErrDead}
	}

	this.state.mutex.Lock()
	if this.state.value == nil {
		this.state.mutex.Unlock()
		return this.state.fail("drop", ErrDead)
	}
	if this.state.exclusive || this.state.shared > 0 {
		this.state.mutex.Unlock()
		return this.state.fail("drop", ErrInUse)
	}
	this.state.value = nil
	group, name := this.state.group, this.state.name
	this.state.mutex.Unlock()

	if group != nil {
		group.forget(name, this.state)
	}
	return nil
}

func (this *state[T]) fail(op string, err error) *BorrowError {
	return &BorrowError{Op: op, Cell: this.name, Err: err}
}
