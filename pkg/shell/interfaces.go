package shell

import (
	"context"
)

type Executor interface {
	Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error)
}

type Parser interface {
	Parse(line string) ([]string, error)
}

// LineReader yields finished input lines. io.EOF ends the session normally.
type LineReader interface {
	ReadLine() (string, error)
}

// History is the command log used by the history builtin.
type History interface {
	Record(line string) error
	All() []string
}
