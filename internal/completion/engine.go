// Package completion produces tab-completion candidates for the line editor.
//
// Candidates come from two namespaces: entries of the directory named by the
// buffer (or the working directory), and executables on PATH when the buffer
// holds no path separator and nothing in the working directory matched.
package completion

import (
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/Neev4n/rawsh/internal/logging"
)

// Engine is stateless; cycling between candidates is the editor's job.
type Engine struct {
	// PathEnv returns the colon separated PATH value. Defaults to os.Getenv("PATH").
	PathEnv func() string
	Logger  logging.Logger
}

func NewEngine(logger logging.Logger) *Engine {
	return &Engine{
		PathEnv: func() string { return os.Getenv("PATH") },
		Logger:  logging.NewComponentLogger(logger, "completion"),
	}
}

// Candidates returns the sorted, de-duplicated completions for buffer.
func (e *Engine) Candidates(buffer string) []string {

	if buffer == "" {
		return nil
	}

	searchDir, prefix := ".", buffer
	if i := strings.LastIndexByte(buffer, '/'); i >= 0 {
		searchDir, prefix = buffer[:i+1], buffer[i+1:]
	}

	candidates := directoryCandidates(searchDir, prefix)

	if len(candidates) == 0 && searchDir == "." {
		candidates = e.executableCandidates(prefix)
	}

	sort.Strings(candidates)
	candidates = slices.Compact(candidates)

	if e.Logger != nil {
		e.Logger.Debug("completion", "buffer", buffer, "dir", searchDir, "count", len(candidates))
	}
	return candidates
}

// directoryCandidates lists dir; an unreadable directory yields nothing.
func directoryCandidates(dir, prefix string) []string {

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		// Stat follows symlinks so a link to a directory completes with a slash.
		if info, err := os.Stat(joinDir(dir, name)); err == nil && info.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}

	return out
}

func (e *Engine) executableCandidates(prefix string) []string {

	pathEnv := ""
	if e.PathEnv != nil {
		pathEnv = e.PathEnv()
	}
	if pathEnv == "" {
		return nil
	}

	var out []string
	for _, dir := range strings.Split(pathEnv, ":") {
		if dir == "" {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, prefix) && isExecutable(joinDir(dir, name)) {
				out = append(out, name)
			}
		}
	}

	return out
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}

func joinDir(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
