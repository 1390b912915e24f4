package cell

import (
	"errors"
	"fmt"
)

var (
	// ErrDead is returned when a cell holds no value: it is the zero
	// Cell, was created with Dead(), or was dropped.
	ErrDead = errors.New("cell is dead")

	// ErrBorrowed is returned when an exclusive handle is requested
	// while any other handle is live.
	ErrBorrowed = errors.New("value is already borrowed")

	// ErrBorrowedMut is returned when a shared handle is requested
	// while an exclusive handle is live.
	ErrBorrowedMut = errors.New("value is already mutably borrowed")

	// ErrInUse is returned by Drop while handles are live.
	ErrInUse = errors.New("cell has live handles")

	// ErrReadOnly is raised when writing through a shared handle.
	ErrReadOnly = errors.New("handle is read-only")

	// ErrReleased is raised when a handle is used after Release.
	ErrReleased = errors.New("handle was released")
)

// BorrowError records a failed operation on a cell or one of its
// handles; Err is one of the sentinel errors of this package.
type BorrowError struct {
	Op   string
	Cell string
	Err  error
}

func (e *BorrowError) Error() string {
	if e.Cell == "" {
		return fmt.Sprintf("cell: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cell %q: %s: %v", e.Cell, e.Op, e.Err)
}

func (e *BorrowError) Unwrap() error {
	return e.Err
}
