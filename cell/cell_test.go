package cell

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]+$`)

// Flag is a boolean that is only ever reached through a pointer.
type Flag struct {
	_  noCopy
	On bool
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Counter is used by the test suite to observe state mutations.
type Counter struct {
	Value int
}

func (this *Counter) IncByReference() {
	this.Value++
}

func (this Counter) IncByValue() {
	this.Value++
}

func assertBorrowError(t *testing.T, target error, err error) {
	t.Helper()

	var borrowErr *BorrowError
	require.True(t, errors.As(err, &borrowErr), "expected a *BorrowError, got %v", err)
	assert.ErrorIs(t, err, target)
}

func recoverError(body func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()

	body()
	return nil
}

func Test_Cell_New_Is_Alive(t *testing.T) {
	cell := New(false)

	assert.False(t, cell.IsDead())
	assert.False(t, cell.IsBorrowed())
	assert.False(t, *cell.Borrow())
}

func Test_Cell_Dead_And_Zero_Are_Dead(t *testing.T) {
	var zero Cell[int]

	assert.True(t, Dead[int]().IsDead())
	assert.True(t, zero.IsDead())

	_, err := zero.TryAcquire()
	assertBorrowError(t, ErrDead, err)

	_, err = Dead[int]().TryAcquireShared()
	assertBorrowError(t, ErrDead, err)
}

func Test_Cell_Unchecked_Write_Then_Read(t *testing.T) {
	cell := New(false)

	*cell.BorrowMut() = true

	assert.True(t, *cell.Borrow())
}

func Test_Cell_Unchecked_Ignores_Handles(t *testing.T) {
	cell := New(1)
	handle := cell.Acquire()

	*cell.BorrowMut() = 2
	assert.Equal(t, 2, handle.Get())

	handle.Release()
}

func Test_Cell_Unchecked_Dead_Panics(t *testing.T) {
	cell := Dead[int]()

	assertBorrowError(t, ErrDead, recoverError(func() { cell.BorrowMut() }))
	assertBorrowError(t, ErrDead, recoverError(func() { cell.Borrow() }))
}

func Test_Cell_Copies_Share_Value(t *testing.T) {
	cell := New(Counter{Value: 0})

	func(copy Cell[Counter]) {
		require.NoError(t, copy.Use(func(counter *Counter) {
			counter.IncByReference()
		}))
	}(cell)

	require.NoError(t, cell.Read(func(counter Counter) {
		assert.Equal(t, 1, counter.Value)
	}))
}

func Test_Cell_Mutation_Through_Use(t *testing.T) {
	cell := New(Counter{Value: 0})

	require.NoError(t, cell.Use(func(counter *Counter) {
		counter.IncByReference()
		// Modifies the implicit copy only.
		counter.IncByValue()
	}))

	assert.Equal(t, 1, cell.Borrow().Value)
}

func Test_Cell_Read_During_Use_Fails(t *testing.T) {
	cell := New(0)

	err := cell.Use(func(value *int) {
		readErr := cell.Read(func(int) {
			t.Error("Read should not run while the value is mutably borrowed.")
		})
		assertBorrowError(t, ErrBorrowedMut, readErr)
		*value = 1
	})

	require.NoError(t, err)
	assert.Equal(t, 1, *cell.Borrow())
}

func Test_Cell_Replace(t *testing.T) {
	cell := New("a")

	previous, err := cell.Replace("b")

	require.NoError(t, err)
	assert.Equal(t, "a", previous)
	assert.Equal(t, "b", *cell.Borrow())
}

func Test_Cell_Drop(t *testing.T) {
	cell := New(10)
	copy := cell

	require.NoError(t, cell.Drop())

	assert.True(t, cell.IsDead())
	assert.True(t, copy.IsDead())
	assertBorrowError(t, ErrDead, cell.Drop())
	assertBorrowError(t, ErrDead, copy.Use(func(*int) {}))
}

func Test_Cell_Drop_Unused_Keeps_Value(t *testing.T) {
	cell := New(42)
	value := cell.Borrow()

	require.NoError(t, cell.Drop())

	assert.Equal(t, 42, *value)
}

func Test_Cell_Drop_With_Live_Handle_Fails(t *testing.T) {
	cell := New(0)
	cell.SetLogf(nil)
	handle := cell.AcquireShared()

	assertBorrowError(t, ErrInUse, cell.Drop())
	assert.False(t, cell.IsDead())

	handle.Release()
	assert.NoError(t, cell.Drop())
}

func Test_Cell_NonCopy_Value(t *testing.T) {
	cell := New(Flag{})
	cell.SetLogf(nil)

	handle := cell.Acquire()
	handle.Deref().On = true
	handle.Release()

	assert.True(t, cell.Borrow().On)
	require.NoError(t, cell.Use(func(flag *Flag) {
		flag.On = false
	}))
	assert.False(t, cell.BorrowMut().On)
}

func Test_Cell_Pointer_Value(t *testing.T) {
	number := 10
	cell := New(&number)

	**cell.BorrowMut() = 11

	assert.Equal(t, 11, number)
}

func Test_BorrowError_Message(t *testing.T) {
	err := &BorrowError{Op: "acquire", Cell: "flag", Err: ErrBorrowed}
	assert.Equal(t, `cell "flag": acquire: value is already borrowed`, err.Error())

	err = &BorrowError{Op: "drop", Err: ErrDead}
	assert.Equal(t, "cell: drop: cell is dead", err.Error())
}
