package pixelterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearTerminalEnv blanks every variable detection looks at so each
// case starts from an unidentified terminal.
func clearTerminalEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"PIXELTERM_PROTOCOL",
		"TERM", "TERM_PROGRAM", "TERM_PROGRAM_VERSION",
		"KITTY_WINDOW_ID", "GHOSTTY_RESOURCES_DIR",
		"KONSOLE_VERSION", "CONTOUR_PROFILE",
		"ITERM_SESSION_ID", "LC_TERMINAL", "XTERM_VERSION",
		"TMUX", "LC_ALL", "LC_CTYPE", "LANG",
	} {
		t.Setenv(v, "")
	}
}

func TestDetectKittyTerminals(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"kitty window id", map[string]string{"KITTY_WINDOW_ID": "1"}},
		{"kitty TERM", map[string]string{"TERM": "xterm-kitty"}},
		{"ghostty", map[string]string{"TERM_PROGRAM": "ghostty"}},
		{"ghostty resources", map[string]string{"GHOSTTY_RESOURCES_DIR": "/usr/share/ghostty"}},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}},
		{"rio", map[string]string{"TERM_PROGRAM": "rio"}},
		{"recent konsole", map[string]string{"KONSOLE_VERSION": "230400"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, Kitty, Detect())
		})
	}
}

func TestDetectEnvOverride(t *testing.T) {
	clearTerminalEnv(t)
	t.Setenv("PIXELTERM_PROTOCOL", "sixel")
	assert.Equal(t, Sixel, Detect())

	t.Setenv("PIXELTERM_PROTOCOL", "halfblocks")
	assert.Equal(t, Halfblocks, Detect())

	t.Setenv("PIXELTERM_PROTOCOL", "ascii")
	assert.Equal(t, Symbols, Detect())
}

func TestITerm2Environments(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"iTerm.app", map[string]string{"TERM_PROGRAM": "iTerm.app"}},
		{"session id", map[string]string{"ITERM_SESSION_ID": "w0t0p0:UUID"}},
		{"lc_terminal", map[string]string{"LC_TERMINAL": "iTerm2"}},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}},
		{"mintty", map[string]string{"TERM": "mintty"}},
		{"warp", map[string]string{"TERM_PROGRAM": "WarpTerminal"}},
		{"vscode", map[string]string{"TERM_PROGRAM": "vscode", "TERM_PROGRAM_VERSION": "1.90"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.True(t, iterm2Supported())
		})
	}
}

func TestSixelEnvironments(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"sixel TERM", map[string]string{"TERM": "xterm-sixel"}},
		{"mlterm", map[string]string{"TERM": "mlterm"}},
		{"foot", map[string]string{"TERM": "foot-extra"}},
		{"yaft", map[string]string{"TERM": "yaft-256color"}},
		{"mintty", map[string]string{"TERM_PROGRAM": "mintty"}},
		{"xterm with version", map[string]string{"TERM": "xterm-256color", "XTERM_VERSION": "XTerm(379)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.True(t, sixelSupported())
		})
	}
}

func TestUTF8Locale(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"utf-8 LC_ALL", map[string]string{"LC_ALL": "en_US.UTF-8"}, true},
		{"utf8 LANG", map[string]string{"LANG": "de_DE.utf8"}, true},
		{"C locale", map[string]string{"LC_ALL": "C"}, false},
		{"posix ctype", map[string]string{"LC_CTYPE": "POSIX"}, false},
		{"LC_ALL wins over LANG", map[string]string{"LC_ALL": "C", "LANG": "en_US.UTF-8"}, false},
		{"LANG alone", map[string]string{"LANG": "ja_JP.UTF-8"}, true},
		{"no locale defaults to utf-8", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTerminalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, utf8Locale())
		})
	}
}
