package maincmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/martinjungblut/cellbox/cell"
	"github.com/mna/mainer"
)

// flag is only ever reached through the cell that owns it.
type flag struct {
	on bool
}

func (f flag) String() string {
	return strconv.FormatBool(f.on)
}

func (c *Cmd) Demo(ctx context.Context, stdio mainer.Stdio, args []string) error {
	shared := cell.New(flag{on: false})
	shared.SetLogf(c.logf(stdio))

	if c.Unchecked {
		return runUnchecked(stdio, shared)
	}
	return printError(stdio, run(stdio, shared))
}

// run writes true into 'shared' through an exclusive handle, then
// prints the value read through a shared handle.
func run(stdio mainer.Stdio, shared cell.Cell[flag]) error {
	write := func() error {
		handle, err := shared.TryAcquire()
		if err != nil {
			return err
		}
		defer handle.Release()

		handle.Set(flag{on: true})
		return nil
	}
	read := func() error {
		handle, err := shared.TryAcquireShared()
		if err != nil {
			return err
		}
		defer handle.Release()

		fmt.Fprintln(stdio.Stdout, handle.Get())
		return nil
	}

	if err := write(); err != nil {
		return err
	}
	return read()
}

// runUnchecked is run through the unchecked views of the cell.
func runUnchecked(stdio mainer.Stdio, shared cell.Cell[flag]) error {
	write := func() { *shared.BorrowMut() = flag{on: true} }
	read := func() { fmt.Fprintln(stdio.Stdout, *shared.Borrow()) }

	write()
	read()
	return nil
}
