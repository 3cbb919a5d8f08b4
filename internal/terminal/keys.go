package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// KeyKind classifies a decoded key press.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyInterrupt
	KeyOther
)

func (k KeyKind) String() string {
	switch k {
	case KeyChar:
		return "char"
	case KeyEnter:
		return "enter"
	case KeyBackspace:
		return "backspace"
	case KeyInterrupt:
		return "interrupt"
	default:
		return "other"
	}
}

// Key is one key event. Rune is only meaningful for KeyChar; Tab arrives as KeyChar '\t'.
type Key struct {
	Kind KeyKind
	Rune rune
}

func (k Key) String() string {
	if k.Kind == KeyChar {
		return fmt.Sprintf("char(%q)", k.Rune)
	}
	return k.Kind.String()
}

const (
	byteCtrlC     = 3
	byteBackspace = 8
	byteTab       = '\t'
	byteEscape    = 27
	byteDelete    = 127
)

// KeyReader decodes a raw byte stream into key events.
type KeyReader struct {
	in *bufio.Reader
}

func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{in: bufio.NewReader(r)}
}

// NextKey blocks until one key has been decoded. It returns io.EOF once the
// stream closes or the terminal hangs up.
func (kr *KeyReader) NextKey() (Key, error) {

	r, _, err := kr.in.ReadRune()
	if errors.Is(err, syscall.EIO) {
		// a hung-up terminal reports EIO rather than EOF
		return Key{}, io.EOF
	}
	if err != nil {
		return Key{}, err
	}

	switch {
	case r == byteCtrlC:
		return Key{Kind: KeyInterrupt}, nil
	case r == '\r' || r == '\n':
		return Key{Kind: KeyEnter}, nil
	case r == byteDelete || r == byteBackspace:
		return Key{Kind: KeyBackspace}, nil
	case r == byteTab:
		return Key{Kind: KeyChar, Rune: r}, nil
	case r == byteEscape:
		kr.skipEscapeSequence()
		return Key{Kind: KeyOther}, nil
	case r < 32:
		return Key{Kind: KeyOther}, nil
	}

	return Key{Kind: KeyChar, Rune: r}, nil
}

// skipEscapeSequence swallows the rest of a CSI (ESC [ ... final) or SS3 (ESC O x)
// sequence. Only bytes already buffered are inspected so a lone ESC never blocks.
func (kr *KeyReader) skipEscapeSequence() {

	if kr.in.Buffered() == 0 {
		return
	}

	next, err := kr.in.Peek(1)
	if err != nil {
		return
	}

	switch next[0] {
	case 'O':
		kr.in.ReadByte()
		if kr.in.Buffered() > 0 {
			kr.in.ReadByte()
		}
	case '[':
		kr.in.ReadByte()
		for kr.in.Buffered() > 0 {
			b, err := kr.in.ReadByte()
			if err != nil || (b >= 0x40 && b <= 0x7e) {
				return
			}
		}
	}
}
