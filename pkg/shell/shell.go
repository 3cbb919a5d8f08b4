package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neev4n/rawsh/internal/history"
	"github.com/Neev4n/rawsh/internal/logging"
)

// type Builtin
type Builtin func(args []string, s *Shell) error

// type Shell
type Shell struct {
	reader   LineReader
	Out      io.Writer
	Err      io.Writer
	mirror   io.Writer
	history  History
	builtins map[string]Builtin
	executor Executor
	parser   Parser
	getenv   func(string) string
	logger   logging.Logger
}

type Option func(*Shell)

func WithHistory(h History) Option {
	return func(s *Shell) { s.history = h }
}

// WithMirror appends captured stdout of external commands to w.
func WithMirror(w io.Writer) Option {
	return func(s *Shell) { s.mirror = w }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Shell) { s.logger = logging.NewComponentLogger(l, "shell") }
}

func WithExecutor(e Executor) Option {
	return func(s *Shell) { s.executor = e }
}

func WithParser(p Parser) Option {
	return func(s *Shell) { s.parser = p }
}

// WithEnv replaces os.Getenv for PATH and HOME lookups.
func WithEnv(getenv func(string) string) Option {
	return func(s *Shell) { s.getenv = getenv }
}

// func New
func New(reader LineReader, out, errw io.Writer, opts ...Option) *Shell {

	s := &Shell{
		reader:   reader,
		Out:      out,
		Err:      errw,
		history:  history.NewMemoryStore(),
		builtins: make(map[string]Builtin),
		parser:   NewShellwordParser(),
		getenv:   os.Getenv,
		logger:   logging.NewDisabledLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.executor == nil {
		s.executor = &DefaultExecutor{LookupFunc: s.Lookup}
	}

	s.registerBuiltins()
	return s
}

// Run reads and dispatches lines until the input ends, the reader fails, or a
// command ends the session. io.EOF is a normal end and returns nil.
func (s *Shell) Run(ctx context.Context) error {
	for {

		line, err := s.reader.ReadLine()

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := s.history.Record(line); err != nil {
			s.logger.Warn("history write failed", "error", err)
			fmt.Fprintln(s.Err, "history:", err)
		}

		if err := s.Dispatch(ctx, line); err != nil {
			if IsFatal(err) {
				return err
			}

			s.logger.Debug("command failed", "line", line, "error", err)
			fmt.Fprintln(s.Err, err)
		}

	}

}

// Dispatch tokenizes line and runs it as a builtin or an external program.
func (s *Shell) Dispatch(ctx context.Context, line string) error {

	cmd, err := ParseCommand(s.parser, line)

	if err != nil {
		return err
	}

	// check built ins
	if fn, ok := s.builtins[cmd.Verb]; ok {
		s.logger.Debug("builtin", "verb", cmd.Verb, "args", cmd.Args)
		return fn(cmd.Args, s)
	}

	return s.runExternal(ctx, cmd)
}

func (s *Shell) runExternal(ctx context.Context, cmd Command) error {

	var stdout, stderr bytes.Buffer

	ioBinding := IOBindings{
		Stdin:  nil,
		Stdout: &stdout,
		Stderr: &stderr,
	}

	exitCode, err := s.executor.Execute(ctx, cmd.Verb, cmd.Args, ioBinding)

	if err != nil {
		return err
	}

	s.logger.Debug("external command finished", "verb", cmd.Verb, "exit", exitCode)

	if stdout.Len() > 0 {
		writeBlock(s.Out, stdout.Bytes())

		if s.mirror != nil {
			if _, err := s.mirror.Write(stdout.Bytes()); err != nil {
				s.logger.Warn("output mirror write failed", "error", err)
			}
		}
	}

	if stderr.Len() > 0 {
		writeBlock(s.Err, stderr.Bytes())
	}

	return nil
}

// writeBlock writes captured output so the next prompt starts on a fresh line.
func writeBlock(w io.Writer, b []byte) {
	w.Write(b)
	if !bytes.HasSuffix(b, []byte("\n")) {
		io.WriteString(w, "\n")
	}
}

// Lookup returns the first PATH entry where dir/name exists. Existence is
// enough; the executable bit is not checked.
func (s *Shell) Lookup(name string) (string, bool) {

	for _, dir := range s.pathDirs() {

		pathToCheck := dir + "/" + name

		if _, err := os.Stat(pathToCheck); err == nil {
			return pathToCheck, true
		}
	}

	return "", false

}

func (s *Shell) pathDirs() []string {
	path := s.getenv("PATH")
	if path == "" {
		return nil
	}

	var dirs []string
	for _, dir := range strings.Split(path, ":") {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// IsBuiltin reports whether name is handled in-process.
func (s *Shell) IsBuiltin(name string) bool {
	_, ok := s.builtins[name]
	return ok
}
