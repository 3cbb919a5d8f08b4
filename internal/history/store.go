package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// FileName is the history file created in the user's home directory.
const FileName = ".shell_history"

// FileOpener abstracts the file system so the store can be tested without disk failures being real.
type FileOpener interface {
	OpenRead(name string) (io.ReadCloser, error)
	OpenAppend(name string) (io.WriteCloser, error)
}

// Store is the ordered, append-only log of submitted lines.
type Store struct {
	entries []string
	file    io.WriteCloser
	path    string
}

// NewMemoryStore returns a store that is never persisted.
func NewMemoryStore() *Store {
	return &Store{}
}

// Open loads existing entries from path and keeps it open for appending.
// A missing file starts an empty log.
func Open(path string, opener FileOpener) (*Store, error) {

	s := &Store{path: path}

	if err := s.load(opener); err != nil {
		return nil, err
	}

	file, err := opener.OpenAppend(path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	s.file = file

	return s, nil
}

func (s *Store) load(opener FileOpener) error {

	r, err := opener.OpenRead(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history %s: %w", s.path, err)
	}
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.entries = append(s.entries, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read history %s: %w", s.path, err)
	}

	return nil
}

// Record appends line to the log and, when persisted, to the history file.
// The in-memory entry is kept even if the write fails.
func (s *Store) Record(line string) error {

	s.entries = append(s.entries, line)

	if s.file == nil {
		return nil
	}

	if _, err := io.WriteString(s.file, line+"\n"); err != nil {
		return fmt.Errorf("write history %s: %w", s.path, err)
	}

	return nil
}

// All returns the entries in insertion order.
func (s *Store) All() []string {
	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
