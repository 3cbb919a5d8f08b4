//go:build darwin || linux

package terminal

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func openPTY(t *testing.T) (*os.File, *os.File) {
	t.Helper()

	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptm.Close()
	})
	return ptm, tty
}

func TestAcquireRejectsNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "not-a-tty"))
	require.NoError(t, err)
	defer f.Close()

	_, err = Acquire(f, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTerminal)
}

func TestAcquireAndRelease(t *testing.T) {
	_, tty := openPTY(t)

	before, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)

	var out bytes.Buffer
	s, err := Acquire(tty, &out)
	require.NoError(t, err)

	raw, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.NotEqual(t, before, raw, "terminal mode should change in raw mode")

	require.NoError(t, s.Release())

	after, err := term.GetState(int(tty.Fd()))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Contains(t, out.String(), "\x1b[?25h")
}

func TestReleaseIsIdempotent(t *testing.T) {
	_, tty := openPTY(t)

	var out bytes.Buffer
	s, err := Acquire(tty, &out)
	require.NoError(t, err)

	require.NoError(t, s.Release())
	written := out.Len()
	require.NoError(t, s.Release())
	assert.Equal(t, written, out.Len(), "second release must not write again")
}

func TestSessionNextKey(t *testing.T) {
	ptm, tty := openPTY(t)

	s, err := Acquire(tty, &bytes.Buffer{})
	require.NoError(t, err)
	defer s.Release()

	_, err = ptm.Write([]byte("a\t\x03"))
	require.NoError(t, err)

	k, err := s.NextKey()
	require.NoError(t, err)
	assert.Equal(t, Key{Kind: KeyChar, Rune: 'a'}, k)

	k, err = s.NextKey()
	require.NoError(t, err)
	assert.Equal(t, Key{Kind: KeyChar, Rune: '\t'}, k)

	k, err = s.NextKey()
	require.NoError(t, err)
	assert.Equal(t, Key{Kind: KeyInterrupt}, k)
}

func TestSessionNextKeyAfterHangup(t *testing.T) {
	ptm, tty := openPTY(t)

	s, err := Acquire(tty, &bytes.Buffer{})
	require.NoError(t, err)
	defer s.Release()

	require.NoError(t, ptm.Close())

	_, err = s.NextKey()
	assert.ErrorIs(t, err, io.EOF)
}
