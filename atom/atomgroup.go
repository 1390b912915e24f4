package atom

import "github.com/martinjungblut/cellbox/cell"

// AtomGroup represents a collection of named Atom instances, backed by
// a cell.Group; it provides a mechanism to set a callback function to
// be invoked whenever a Use(), Read() or Swap() within the group
// completes.
type AtomGroup[T any] struct {
	cells *cell.Group[T]
}

func NewAtomGroup[T any](name string) AtomGroup[T] {
	cells := cell.NewGroup[T](name)
	cells.SetLogf(nil)
	return AtomGroup[T]{cells: cells}
}

func (this AtomGroup[T]) New(name string, value T) Atom[T] {
	return FromCell(this.cells.New(name, value))
}

func (this AtomGroup[T]) Dead() Atom[T] {
	return Dead[T]()
}

// Names returns the names of the group's live atoms.
func (this AtomGroup[T]) Names() []string {
	return this.cells.Names()
}

// OnRelease sets a callback function to be invoked every time an
// atom of the group finishes an access; events of Read() carry no
// Previous or Current value. Invocations are serialized, including
// those of concurrent Read() calls.
func (this AtomGroup[T]) OnRelease(callback func(cell.ReleaseEvent[T])) {
	this.cells.OnRelease(callback)
}
