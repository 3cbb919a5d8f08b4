package shell

import (
	"io"
	"os"

	"github.com/Neev4n/rawsh/internal/history"
)

// FileOpener is the history store's opener; the mirror and the history file share it.
type FileOpener = history.FileOpener

// Default file opener uses real file system in device
type DefaultFileOpener struct {
	// Perm applies when OpenAppend creates the file. Zero means 0644.
	Perm os.FileMode
}

func (fp *DefaultFileOpener) OpenRead(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// OpenAppend opens name for appending, creating it if needed.
func (fp *DefaultFileOpener) OpenAppend(name string) (io.WriteCloser, error) {
	perm := fp.Perm
	if perm == 0 {
		perm = 0644
	}
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
}

// lazyAppendWriter opens its file on the first write, so a mirror that is
// never used never creates a file.
type lazyAppendWriter struct {
	name   string
	opener FileOpener
	file   io.WriteCloser
}

// NewMirror returns a writer that appends to name, opened on first use.
func NewMirror(name string, opener FileOpener) io.WriteCloser {
	return &lazyAppendWriter{name: name, opener: opener}
}

func (w *lazyAppendWriter) Write(p []byte) (int, error) {
	if w.file == nil {
		f, err := w.opener.OpenAppend(w.name)
		if err != nil {
			return 0, err
		}
		w.file = f
	}
	return w.file.Write(p)
}

func (w *lazyAppendWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
