package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const helpText = "Available commands: type, exit [code], help, echo, pwd, cd, history"

func (s *Shell) registerBuiltins() {

	s.builtins["echo"] = func(args []string, s *Shell) error {
		fmt.Fprintln(s.Out, strings.Join(args, " "))
		return nil
	}

	// exit [code]; a missing or unparsable code exits 0
	s.builtins["exit"] = func(args []string, s *Shell) error {
		code := 0
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				code = n
			}
		}
		return &ExitError{Code: code}
	}

	s.builtins["help"] = func(args []string, s *Shell) error {
		fmt.Fprintln(s.Out, helpText)
		return nil
	}

	// type is reserved so it never resolves through PATH
	s.builtins["type"] = func(args []string, s *Shell) error {
		return nil
	}

	s.builtins["pwd"] = func(args []string, s *Shell) error {
		dir, err := os.Getwd()
		if err != nil {
			return newCommandError(ErrWorkingDir, err, "pwd: error retrieving current directory: %v", err)
		}

		fmt.Fprintln(s.Out, dir)
		return nil
	}

	s.builtins["cd"] = func(args []string, s *Shell) error {

		if len(args) == 0 {
			return newCommandError(ErrMissingArgument, nil, "cd: missing argument")
		}

		target := args[0]

		if target == "~" {
			home := s.getenv("HOME")
			if home == "" {
				return newCommandError(ErrHomeNotSet, nil, "cd: HOME not set")
			}
			target = home
		}

		if err := os.Chdir(target); err != nil {

			if os.IsNotExist(err) {
				return newCommandError(ErrPathChange, err, "cd: %s: No such file or directory", target)
			} else if os.IsPermission(err) {
				return newCommandError(ErrPathChange, err, "cd: %s: Permission denied", target)
			}

			return newCommandError(ErrPathChange, err, "cd: %s: %v", target, err)
		}

		return nil

	}

	s.builtins["history"] = func(args []string, s *Shell) error {
		for i, line := range s.history.All() {
			fmt.Fprintf(s.Out, "%5d  %s\n", i+1, line)
		}
		return nil
	}
}
