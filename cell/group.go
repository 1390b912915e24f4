package cell

import (
	"sort"
	"sync"

	"github.com/dolthub/swiss"
)

// ReleaseEvent represents the information associated with the release
// of a handle of a Cell within a Group;
// Previous and Current hold snapshots of the value taken when an
// exclusive handle was acquired and released; both are nil for shared
// handles.
type ReleaseEvent[T any] struct {
	GroupName string
	CellName  string
	Exclusive bool
	Address   string
	Previous  *T
	Current   *T
}

// Group represents a collection of named Cell instances;
// It allows cells to be looked up by name, and provides a mechanism to
// set a callback function to be invoked on every handle release within
// the group.
type Group[T any] struct {
	name      string
	mutex     sync.Mutex
	cells     *swiss.Map[string, *state[T]]
	logf      func(line string)
	onRelease func(ReleaseEvent[T])

	// calling serializes onRelease invocations; shared handles of one
	// cell may be released from several goroutines at once.
	calling sync.Mutex
}

func NewGroup[T any](name string) *Group[T] {
	return &Group[T]{
		name:  name,
		cells: swiss.NewMap[string, *state[T]](8),
		logf:  printLine,
	}
}

// Name returns the group's name.
func (this *Group[T]) Name() string {
	return this.name
}

// New creates a cell named 'name' within the group; a cell previously
// registered under the same name is no longer reachable through Lookup.
func (this *Group[T]) New(name string, value T) Cell[T] {
	cell := New(value)

	this.mutex.Lock()
	defer this.mutex.Unlock()

	cell.state.name = name
	cell.state.group = this
	cell.state.logf = this.logf
	this.cells.Put(name, cell.state)
	return cell
}

// Lookup returns the live cell registered as 'name'.
func (this *Group[T]) Lookup(name string) (Cell[T], bool) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	s, ok := this.cells.Get(name)
	if !ok {
		return Cell[T]{}, false
	}
	return Cell[T]{state: s}, true
}

// Len returns the number of live cells in the group.
func (this *Group[T]) Len() int {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.cells.Count()
}

// Names returns the names of the live cells in the group, sorted.
func (this *Group[T]) Names() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	names := make([]string, 0, this.cells.Count())
	this.cells.Iter(func(name string, _ *state[T]) bool {
		names = append(names, name)
		return false
	})
	sort.Strings(names)
	return names
}

// SetLogf sets the logf of cells created by the group from now on.
func (this *Group[T]) SetLogf(logf func(line string)) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.logf = logf
}

// OnRelease sets a callback function to be invoked on every handle
// release within the Group; invocations never overlap, so the callback
// needs no locking of its own.
func (this *Group[T]) OnRelease(callback func(ReleaseEvent[T])) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.onRelease = callback
}

func (this *Group[T]) doRelease(event ReleaseEvent[T]) {
	this.mutex.Lock()
	callback := this.onRelease
	this.mutex.Unlock()

	if callback != nil {
		event.GroupName = this.name

		this.calling.Lock()
		defer this.calling.Unlock()
		callback(event)
	}
}

// forget unregisters a dropped cell, unless its name was taken over by
// a newer cell.
func (this *Group[T]) forget(name string, s *state[T]) {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if current, ok := this.cells.Get(name); ok && current == s {
		this.cells.Delete(name)
	}
}
