package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command is one tokenized input line.
type Command struct {
	Verb string
	Args []string
}

// ShellwordParser splits a line into POSIX shell words. Single quotes keep
// everything literally. Inside double quotes a backslash only escapes $ ` " \
// and newline, and is kept before any other character. An unquoted # at the
// start of a word begins a comment.
type ShellwordParser struct {
	split func(string) ([]string, error)
}

func NewShellwordParser() *ShellwordParser {
	return &ShellwordParser{split: shellquote.Split}
}

func (p *ShellwordParser) Parse(line string) ([]string, error) {

	words, err := p.split(stripComment(line))
	if err != nil {
		return nil, newCommandError(ErrTokenize, err, "parse error: %v", err)
	}

	return words, nil
}

type parseState int

const (
	stateOutside parseState = iota
	stateSingleQuote
	stateDoubleQuote
)

// stripComment cuts line at the first unquoted, unescaped # that starts a word.
// Unterminated quotes are left for the splitter to report.
func stripComment(line string) string {

	state := stateOutside
	isEscaping := false
	atWordStart := true

	for i, ch := range line {

		if isEscaping {
			isEscaping = false
			atWordStart = false
			continue
		}

		switch state {
		case stateSingleQuote:
			if ch == '\'' {
				state = stateOutside
			}

		case stateDoubleQuote:
			if ch == '\\' {
				isEscaping = true
			} else if ch == '"' {
				state = stateOutside
			}

		default:
			switch {
			case ch == '#' && atWordStart:
				return line[:i]
			case strings.ContainsRune(" \t\n", ch):
				atWordStart = true
				continue
			case ch == '\\':
				isEscaping = true
			case ch == '\'':
				state = stateSingleQuote
			case ch == '"':
				state = stateDoubleQuote
			}
		}

		atWordStart = false
	}

	return line
}

// ParseCommand tokenizes line and splits off the verb. A line with no words, or
// whose first word is empty (for example '' or a lone comment), is a tokenize error.
func ParseCommand(p Parser, line string) (Command, error) {

	words, err := p.Parse(line)
	if err != nil {
		return Command{}, err
	}

	if len(words) == 0 || words[0] == "" {
		return Command{}, newCommandError(ErrTokenize, ErrEmptyCommand, "parse error: %v", ErrEmptyCommand)
	}

	return Command{Verb: words[0], Args: words[1:]}, nil
}
