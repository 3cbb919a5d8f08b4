// Package editor implements the single-line input editor: append, trailing
// backspace, and Tab completion that cycles through candidates.
package editor

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Neev4n/rawsh/internal/logging"
	"github.com/Neev4n/rawsh/internal/terminal"
)

// ErrInterrupted is returned by ReadLine when the user presses Ctrl-C.
// The caller must release the terminal before exiting.
var ErrInterrupted = errors.New("interrupted")

const completionKey = '\t'

// eraseOne moves back, blanks the cell and moves back again.
const eraseOne = "\b \b"

type KeySource interface {
	NextKey() (terminal.Key, error)
}

type Completer interface {
	Candidates(buffer string) []string
}

// PromptFunc renders the prompt at the start of every line.
type PromptFunc func() string

type Editor struct {
	keys      KeySource
	out       io.Writer
	completer Completer
	prompt    PromptFunc
	logger    logging.Logger

	buffer     []rune
	completion completionState
}

type Option func(*Editor)

func WithPrompt(p PromptFunc) Option {
	return func(e *Editor) { e.prompt = p }
}

func WithLogger(l logging.Logger) Option {
	return func(e *Editor) { e.logger = logging.NewComponentLogger(l, "editor") }
}

func New(keys KeySource, out io.Writer, completer Completer, opts ...Option) *Editor {
	e := &Editor{
		keys:      keys,
		out:       out,
		completer: completer,
		prompt:    func() string { return "$ " },
		logger:    logging.NewDisabledLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadLine draws the prompt and edits until Enter. It returns ErrInterrupted on
// Ctrl-C and the key source's error (io.EOF when the input closes).
func (e *Editor) ReadLine() (string, error) {

	e.buffer = e.buffer[:0]
	e.completion.reset()

	e.write(e.prompt() + ansi.HideCursor)

	for {
		key, err := e.keys.NextKey()
		if err != nil {
			return "", err
		}

		switch key.Kind {
		case terminal.KeyChar:
			if key.Rune == completionKey {
				e.complete()
				continue
			}
			e.completion.reset()
			e.buffer = append(e.buffer, key.Rune)
			e.write(string(key.Rune))

		case terminal.KeyBackspace:
			e.completion.reset()
			if len(e.buffer) > 0 {
				e.buffer = e.buffer[:len(e.buffer)-1]
				e.write(eraseOne)
			}

		case terminal.KeyEnter:
			e.completion.reset()
			line := string(e.buffer)
			e.buffer = e.buffer[:0]
			e.write(ansi.ResetStyle + ansi.ShowCursor + "\r\n")
			return line, nil

		case terminal.KeyInterrupt:
			e.logger.Debug("interrupt")
			e.write("\r\nExiting...\r\n")
			return "", ErrInterrupted

		default:
			e.completion.reset()
		}
	}
}

// complete replaces the buffer with the next candidate. The first Tab after an
// edit asks the completer; later presses cycle through the same list.
func (e *Editor) complete() {

	if e.completion.empty() {
		e.completion.populate(e.completer.Candidates(string(e.buffer)))
		e.logger.Debug("completion candidates", "buffer", string(e.buffer), "count", len(e.completion.candidates))
	}

	candidate, ok := e.completion.next()
	if !ok {
		return
	}

	n := len(e.buffer)
	e.write(strings.Repeat("\b", n) + strings.Repeat(" ", n) + strings.Repeat("\b", n))
	e.buffer = []rune(candidate)
	e.write(candidate)
}

func (e *Editor) write(s string) {
	io.WriteString(e.out, s)
}
