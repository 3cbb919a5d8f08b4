package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/Neev4n/rawsh/internal/completion"
	"github.com/Neev4n/rawsh/internal/config"
	"github.com/Neev4n/rawsh/internal/editor"
	"github.com/Neev4n/rawsh/internal/history"
	"github.com/Neev4n/rawsh/internal/logging"
	"github.com/Neev4n/rawsh/internal/terminal"
	"github.com/Neev4n/rawsh/pkg/shell"
)

// Streams are the process streams the shell runs on. In must be a terminal.
type Streams struct {
	In  *os.File
	Out io.Writer
	Err io.Writer
}

type flags struct {
	historyFile string
	mirrorFile  string
	configFile  string
	noMirror    bool
	verbose     bool
}

// settings are the resolved values after flags, environment and rc file.
type settings struct {
	historyFile string
	mirrorFile  string
	debugFile   string
	debugLevel  slog.Level
	debugFormat logging.Format
}

// exitCodeError carries the process exit code out of cobra.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error { return e.err }

// Execute runs the shell on the process streams and returns the exit code.
func Execute() int {
	root := NewRootCommand(Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	return exitCode(root.Execute())
}

func NewRootCommand(streams Streams) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "rawsh",
		Short:         "Interactive shell with tab completion and persistent history",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), streams, f)
			var coded *exitCodeError
			if err != nil && (!errors.As(err, &coded) || coded.err != nil) {
				fmt.Fprintln(streams.Err, "rawsh:", err)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&f.historyFile, "history-file", "", "history file (default ~/"+history.FileName+")")
	cmd.Flags().StringVar(&f.mirrorFile, "mirror-file", "", "file that receives external command output (default "+config.DefaultMirrorFile+")")
	cmd.Flags().BoolVar(&f.noMirror, "no-mirror", false, "do not mirror external command output")
	cmd.Flags().StringVar(&f.configFile, "config", "", "dotenv style settings file (default ~/.rawshrc)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug level logging to the debug file")

	return cmd
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded *exitCodeError
	if errors.As(err, &coded) {
		return coded.code
	}
	return 1
}

func resolveSettings(cfg config.Manager, f flags) settings {

	s := settings{
		historyFile: f.historyFile,
		mirrorFile:  f.mirrorFile,
		debugFile:   cfg.GetStringWithDefault(config.KeyDebugFile, filepath.Join(os.TempDir(), "rawsh-debug.log")),
		debugLevel:  logging.ParseLevel(cfg.GetStringWithDefault(config.KeyDebugLevel, "")),
		debugFormat: logging.ParseFormat(cfg.GetStringWithDefault(config.KeyDebugFormat, "")),
	}

	if s.historyFile == "" {
		s.historyFile = cfg.GetStringWithDefault(config.KeyHistoryFile, "")
	}
	if s.historyFile == "" {
		if home, err := homedir.Dir(); err == nil {
			s.historyFile = filepath.Join(home, history.FileName)
		}
	}

	if s.mirrorFile == "" {
		s.mirrorFile = cfg.GetStringWithDefault(config.KeyMirrorFile, config.DefaultMirrorFile)
	}
	if f.noMirror || !cfg.GetBoolWithDefault(config.KeyMirror, true) {
		s.mirrorFile = ""
	}

	if f.verbose {
		s.debugLevel = slog.LevelDebug
	}

	return s
}

func defaultConfigFile() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rawshrc")
}

func run(ctx context.Context, streams Streams, f flags) error {

	if ctx == nil {
		ctx = context.Background()
	}

	configFile := f.configFile
	if configFile == "" {
		configFile = defaultConfigFile()
	}
	if err := config.LoadFile(configFile); err != nil {
		return &exitCodeError{code: 1, err: err}
	}

	s := resolveSettings(config.NewManager(), f)

	// Logging is best effort; a debug file that cannot be opened disables it.
	logger, logCloser, _ := logging.NewFileLogger(s.debugFile, s.debugLevel, s.debugFormat)
	defer logCloser.Close()

	session, err := terminal.Acquire(streams.In, streams.Out)
	if err != nil {
		logger.Error("cannot start terminal session", "error", err)
		return &exitCodeError{code: 1, err: err}
	}

	stopSignals := releaseOnSignal(session, logger)
	defer stopSignals()

	out := terminal.NewLineWriter(streams.Out)
	errw := terminal.NewLineWriter(streams.Err)
	io.WriteString(out, "\n")

	store := openHistory(s.historyFile, logger)

	opts := []shell.Option{shell.WithHistory(store), shell.WithLogger(logger)}

	var mirror io.WriteCloser
	if s.mirrorFile != "" {
		mirror = shell.NewMirror(s.mirrorFile, &shell.DefaultFileOpener{})
		opts = append(opts, shell.WithMirror(mirror))
	}

	ed := editor.New(session, streams.Out, completion.NewEngine(logger),
		editor.WithPrompt(newPrompt(streams.Out)),
		editor.WithLogger(logger),
	)

	sh := shell.New(ed, out, errw, opts...)

	logger.Info("session started", "history", s.historyFile, "mirror", s.mirrorFile)
	runErr := sh.Run(ctx)

	var teardown *multierror.Error
	teardown = multierror.Append(teardown, store.Close())
	if mirror != nil {
		teardown = multierror.Append(teardown, mirror.Close())
	}
	teardown = multierror.Append(teardown, session.Release())
	if err := teardown.ErrorOrNil(); err != nil {
		logger.Warn("teardown", "error", err)
	}

	return sessionResult(runErr, logger)
}

// sessionResult maps the way the read loop ended onto an exit code.
func sessionResult(runErr error, logger logging.Logger) error {

	var exitErr *shell.ExitError

	switch {
	case runErr == nil:
		logger.Info("input closed")
		return nil
	case errors.Is(runErr, editor.ErrInterrupted):
		logger.Info("interrupted")
		return nil
	case errors.As(runErr, &exitErr):
		logger.Info("exit", "code", exitErr.Code)
		if exitErr.Code == 0 {
			return nil
		}
		return &exitCodeError{code: exitErr.Code}
	default:
		logger.Error("session ended", "error", runErr)
		return &exitCodeError{code: 1, err: runErr}
	}
}

func openHistory(path string, logger logging.Logger) *history.Store {
	if path == "" {
		logger.Warn("home directory unknown, history kept in memory only")
		return history.NewMemoryStore()
	}

	store, err := history.Open(path, &shell.DefaultFileOpener{Perm: 0600})
	if err != nil {
		logger.Warn("history unavailable, kept in memory only", "error", err)
		return history.NewMemoryStore()
	}
	return store
}

// releaseOnSignal restores the terminal before the process is torn down by a
// signal, since deferred calls do not run on that path.
func releaseOnSignal(session *terminal.Session, logger logging.Logger) (stop func()) {

	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		select {
		case sig := <-sigs:
			if err := session.Release(); err != nil {
				logger.Error("release on signal", "error", err)
			}
			logger.Warn("terminated by signal", "signal", sig.String())
			os.Exit(signalExitCode(sig))
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
