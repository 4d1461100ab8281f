package pixelterm

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Session owns the terminal state for the lifetime of the browse loop:
// raw input mode and cursor visibility. It is acquired once at startup
// and Close restores everything; callers defer Close immediately so
// restoration runs on every exit path, signal-driven ones included.
type Session struct {
	in       *os.File
	out      *os.File
	oldState *term.State
	closed   bool
}

// NewSession puts the terminal into raw mode and hides the cursor.
func NewSession() (*Session, error) {
	in, out := os.Stdin, os.Stdout
	if !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return nil, fmt.Errorf("interactive session needs a terminal on stdin and stdout")
	}
	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	s := &Session{in: in, out: out, oldState: oldState}
	fmt.Fprint(out, "\x1b[?25l")
	return s, nil
}

// In returns the raw input stream.
func (s *Session) In() *os.File { return s.in }

// Out returns the terminal output stream. It has exactly one writer,
// the foreground loop.
func (s *Session) Out() *os.File { return s.out }

// Close shows the cursor again and leaves raw mode. Calling it twice
// is fine; only the first call does anything.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	fmt.Fprint(s.out, "\x1b[?25h")
	return term.Restore(int(s.in.Fd()), s.oldState)
}
