package maincmd

import (
	"context"
	"errors"

	"github.com/martinjungblut/cellbox/cell"
	"github.com/mna/mainer"
)

func (c *Cmd) Misuse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	group := cell.NewGroup[flag]("misuse")
	group.SetLogf(c.logf(stdio))
	shared := group.New("flag", flag{})

	writer := shared.Acquire()
	defer writer.Release()

	reader, err := shared.TryAcquireShared()
	if err == nil {
		reader.Release()
		return printError(stdio, errors.New("overlapping handles were not detected"))
	}
	return printError(stdio, err)
}
