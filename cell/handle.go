package cell

import "fmt"

// Handle is a transient view of a Cell's value. An exclusive handle
// may read and write; a shared handle may only read. A handle is live
// from its acquisition until Release; while it is, the cell cannot be
// dropped.
type Handle[T any] struct {
	owner     *state[T]
	ptr       *T
	exclusive bool
	released  bool

	// previous is a snapshot taken at acquisition, kept only for
	// exclusive handles of a cell that belongs to a Group.
	previous *T
}

// Acquire returns an exclusive handle to the value;
// Acquire *panics* if:
// 1: the cell is dead;
// 2: any other handle of the cell is live.
func (this Cell[T]) Acquire() *Handle[T] {
	handle, err := this.TryAcquire()
	if err != nil {
		panic(err)
	}
	return handle
}

// AcquireShared returns a read-only handle to the value;
// AcquireShared *panics* if:
// 1: the cell is dead;
// 2: an exclusive handle of the cell is live.
func (this Cell[T]) AcquireShared() *Handle[T] {
	handle, err := this.TryAcquireShared()
	if err != nil {
		panic(err)
	}
	return handle
}

// TryAcquire is like Acquire, but returns an error instead of
// panicking.
func (this Cell[T]) TryAcquire() (*Handle[T], error) {
	return this.acquire(true)
}

// TryAcquireShared is like AcquireShared, but returns an error instead
// of panicking.
func (this Cell[T]) TryAcquireShared() (*Handle[T], error) {
	return this.acquire(false)
}

func (this Cell[T]) acquire(exclusive bool) (*Handle[T], error) {
	op := "acquire shared"
	if exclusive {
		op = "acquire"
	}
	if this.state == nil {
		return nil, &BorrowError{Op: op, Err: ErrDead}
	}

	s := this.state
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case s.value == nil:
		return nil, s.fail(op, ErrDead)
	case s.exclusive && !exclusive:
		return nil, s.fail(op, ErrBorrowedMut)
	case exclusive && (s.exclusive || s.shared > 0):
		return nil, s.fail(op, ErrBorrowed)
	}

	handle := &Handle[T]{
		owner:     s,
		ptr:       s.value,
		exclusive: exclusive,
	}
	if exclusive {
		s.exclusive = true
		if s.group != nil {
			snapshot := *s.value
			handle.previous = &snapshot
		}
	} else {
		s.shared++
	}
	return handle, nil
}

// Exclusive returns true if the handle may write to the value.
func (this *Handle[T]) Exclusive() bool {
	return this.exclusive
}

// Get returns a copy of the value.
func (this *Handle[T]) Get() T {
	this.check("get")
	return *this.ptr
}

// Set replaces the value; Set *panics* on a shared handle.
func (this *Handle[T]) Set(value T) {
	this.checkWrite("set")
	*this.ptr = value
}

// Deref returns a pointer to the value, valid until the handle is
// released; Deref *panics* on a shared handle.
func (this *Handle[T]) Deref() *T {
	this.checkWrite("deref")
	return this.ptr
}

func (this *Handle[T]) checkWrite(op string) {
	this.check(op)
	if !this.exclusive {
		panic(this.owner.fail(op, ErrReadOnly))
	}
}

func (this *Handle[T]) check(op string) {
	if this.released {
		panic(this.owner.fail(op, ErrReleased))
	}
}

// Release ends the handle's borrow and writes the handle's address
// through the cell's logf before returning;
// Release *panics* if the handle was already released.
func (this *Handle[T]) Release() {
	if this.released {
		panic(this.owner.fail("release", ErrReleased))
	}
	this.released = true

	s := this.owner
	s.mutex.Lock()
	if this.exclusive {
		s.exclusive = false
	} else {
		s.shared--
	}
	logf, group, name := s.logf, s.group, s.name
	s.mutex.Unlock()

	address := fmt.Sprintf("%p", this)
	if logf != nil {
		logf(address)
	}

	if group != nil {
		var current *T
		if this.exclusive {
			snapshot := *this.ptr
			current = &snapshot
		}
		group.doRelease(ReleaseEvent[T]{
			CellName:  name,
			Exclusive: this.exclusive,
			Address:   address,
			Previous:  this.previous,
			Current:   current,
		})
	}
}
