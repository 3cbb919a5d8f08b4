package terminal

import (
	"io"
)

// lineWriter maps lone \n to \r\n. Raw mode disables the output post-processing
// that normally does this.
type lineWriter struct {
	w    io.Writer
	prev byte
}

// NewLineWriter wraps w so that output renders correctly while raw mode is active.
func NewLineWriter(w io.Writer) io.Writer {
	return &lineWriter{w: w}
}

func (lw *lineWriter) Write(p []byte) (int, error) {

	out := make([]byte, 0, len(p)+len(p)/8)
	for _, ch := range p {
		if ch == '\n' && lw.prev != '\r' {
			out = append(out, '\r')
		}
		out = append(out, ch)
		lw.prev = ch
	}

	if _, err := lw.w.Write(out); err != nil {
		return 0, err
	}

	return len(p), nil
}
