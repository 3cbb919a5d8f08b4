package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrTerminal means the input device could not be placed in raw mode.
var ErrTerminal = errors.New("terminal error")

// Session owns the raw-mode terminal for the lifetime of the shell.
type Session struct {
	in    *os.File
	out   io.Writer
	fd    int
	state *term.State
	keys  *KeyReader

	once       sync.Once
	releaseErr error
}

// Acquire puts in into raw mode and returns the session that restores it.
func Acquire(in *os.File, out io.Writer) (*Session, error) {

	fd := in.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil, fmt.Errorf("%w: %s is not a terminal", ErrTerminal, in.Name())
	}

	state, err := term.MakeRaw(int(fd))
	if err != nil {
		return nil, fmt.Errorf("%w: enable raw mode: %v", ErrTerminal, err)
	}

	return &Session{
		in:    in,
		out:   out,
		fd:    int(fd),
		state: state,
		keys:  NewKeyReader(in),
	}, nil
}

// NextKey blocks for the next key press on the session's input.
func (s *Session) NextKey() (Key, error) {
	return s.keys.NextKey()
}

// Release shows the cursor, resets colours and restores the saved terminal mode.
// Safe to call from any exit path, any number of times.
func (s *Session) Release() error {
	s.once.Do(func() {
		if s.out != nil {
			io.WriteString(s.out, ansi.ResetStyle+ansi.ShowCursor)
		}
		if err := term.Restore(s.fd, s.state); err != nil {
			s.releaseErr = fmt.Errorf("restore terminal: %w", err)
		}
	})
	return s.releaseErr
}
