// Package atom guards a cell.Cell with a read-write mutex so that it
// can be shared between goroutines.
package atom

import (
	"sync"

	"github.com/martinjungblut/cellbox/cell"
)

// Atom is a shared, atomic reference; copies of an Atom always refer
// to the same value, so a modification to any copy implies a state
// mutation across all copies.
type Atom[T any] struct {
	mutex *sync.RWMutex
	cell  cell.Cell[T]
}

// New() creates an Atom holding 'value'; releases of its handles are
// not logged.
func New[T any](value T) Atom[T] {
	c := cell.New(value)
	c.SetLogf(nil)
	return FromCell(c)
}

func Dead[T any]() Atom[T] {
	return FromCell(cell.Dead[T]())
}

// FromCell() guards an existing cell. Accesses made through other
// copies of the cell are not serialized by the Atom.
func FromCell[T any](c cell.Cell[T]) Atom[T] {
	return Atom[T]{
		mutex: &sync.RWMutex{},
		cell:  c,
	}
}

// Cell returns the guarded cell.
func (this Atom[T]) Cell() cell.Cell[T] {
	return this.cell
}

// Use() takes a 'handler' func(*T) as its input, and passes the
// atom's value to said function, which is invoked atomically; Use()
// returns false without calling 'handler' if the atom is dead or its
// value is already borrowed.
func (this Atom[T]) Use(handler func(*T)) bool {
	if this.IsDead() {
		return false
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()

	handle, err := this.cell.TryAcquire()
	if err != nil {
		return false
	}
	defer handle.Release()

	handler(handle.Deref())
	return true
}

// Read() passes a copy of the atom's value to 'handler'; concurrent
// calls to Read() may run at the same time, but never alongside Use()
// or Swap().
func (this Atom[T]) Read(handler func(T)) bool {
	if this.IsDead() {
		return false
	}

	this.mutex.RLock()
	defer this.mutex.RUnlock()

	handle, err := this.cell.TryAcquireShared()
	if err != nil {
		return false
	}
	defer handle.Release()

	handler(handle.Get())
	return true
}

// Swap() takes a 'handler' func(T) T as its input, and passes the
// atom's value to said function, which is invoked atomically; the
// value returned by this 'handler' is used as the atom's new value.
func (this Atom[T]) Swap(handler func(T) T) bool {
	return this.Use(func(value *T) {
		*value = handler(*value)
	})
}

// Kill() drops the atom's value; it returns false if the atom was
// already dead or is in use elsewhere.
func (this Atom[T]) Kill() bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	return this.cell.Drop() == nil
}

// IsDead() returns true if the atom is dead, meaning it cannot be
// used anymore.
func (this Atom[T]) IsDead() bool {
	return this.cell.IsDead()
}

func (this Atom[T]) IsAlive() bool {
	return !this.IsDead()
}

// IsLocked() returns true while a handler passed to Use(), Read() or
// Swap() is running.
func (this Atom[T]) IsLocked() bool {
	return this.cell.IsBorrowed()
}

// Nest() creates a new execution context for the atom; without it,
// calling Use() from within a Use() handler deadlocks. On a nested
// atom the inner call returns false instead, as the value is still
// borrowed by the outer handler. Only a Read() nested in a Read()
// succeeds; any access nested in a Use() or Swap() returns false.
func (this Atom[T]) Nest() Atom[T] {
	this.mutex = &sync.RWMutex{}
	return this
}

// SliceExtract() converts a slice of Atom[T] into a slice of T,
// skipping dead atoms.
func SliceExtract[T any](input []Atom[T]) []T {
	output := make([]T, 0, len(input))

	for _, atom := range input {
		atom.Read(func(value T) {
			output = append(output, value)
		})
	}

	return output
}
