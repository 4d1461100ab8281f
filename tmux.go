package pixelterm

import (
	"os"
	"os/exec"
	"strings"
	"sync"
)

var tmuxPassthroughOnce sync.Once

// inTmux checks if the session runs inside tmux.
func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// enableTmuxPassthrough asks tmux to pass graphics escapes through to the
// outer terminal. Without it kitty/iTerm2/sixel payloads are swallowed.
func enableTmuxPassthrough() {
	tmuxPassthroughOnce.Do(func() {
		// -p sets the option for the current pane only
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil
		_ = cmd.Run()
	})
}

// wrapTmuxPassthrough wraps an escape sequence for tmux passthrough if needed.
// All ESC characters inside the sequence must be doubled.
func wrapTmuxPassthrough(output string) string {
	if inTmux() {
		if !strings.HasPrefix(output, "\x1b") {
			return output
		}
		return "\x1bPtmux;\x1b" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
	}
	return output
}
