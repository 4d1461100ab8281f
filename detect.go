package pixelterm

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/blacktop/pixelterm/internal/logging"
)

// probeTimeout bounds how long a capability probe waits for a reply.
const probeTimeout = 100 * time.Millisecond

// Detect classifies the terminal into a Protocol, trying protocols in
// descending resolution order. It is total: Symbols always succeeds.
//
// Detect must run before the interactive session takes over stdin; the
// probes read terminal responses that would otherwise land in the keyboard
// stream.
func Detect() Protocol {
	if v := os.Getenv("PIXELTERM_PROTOCOL"); v != "" {
		if p, err := ParseProtocol(v); err == nil {
			logging.Debug("protocol %s forced via PIXELTERM_PROTOCOL", p)
			return p
		}
		logging.Debug("ignoring invalid PIXELTERM_PROTOCOL=%q", v)
	}
	p := detectProtocol()
	logging.Debug("detected protocol %s", p)
	return p
}

func detectProtocol() Protocol {
	if kittySupported() {
		return Kitty
	}
	if iterm2Supported() {
		return ITerm2
	}
	if sixelSupported() {
		return Sixel
	}
	if halfblocksSupported() {
		return Halfblocks
	}
	return Symbols
}

// kittySupported checks for the Kitty graphics protocol.
func kittySupported() bool {
	// fast path: environment variables
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty"):
		return true
	case os.Getenv("TERM_PROGRAM") == "ghostty" || os.Getenv("GHOSTTY_RESOURCES_DIR") != "":
		return true
	case os.Getenv("TERM_PROGRAM") == "WezTerm":
		return true
	case os.Getenv("TERM_PROGRAM") == "rio":
		return true
	}

	// Konsole speaks kitty graphics since 22.04, but Contour reuses its env
	if v := os.Getenv("KONSOLE_VERSION"); v != "" && os.Getenv("CONTOUR_PROFILE") == "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 220400 {
			return true
		}
	}

	// Send a graphics query action followed by primary device attributes;
	// a kitty-capable terminal echoes the image id back.
	return probeTTY("\x1b_Gi=42,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\\x1b[c", func(response string) bool {
		return strings.Contains(response, "_Gi=42") || strings.Contains(response, "_G42")
	})
}

// iterm2Supported checks for the iTerm2 inline images protocol.
func iterm2Supported() bool {
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case termProgram == "iTerm.app":
		return true
	case os.Getenv("ITERM_SESSION_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("LC_TERMINAL")), "iterm"):
		return true
	case termProgram == "WezTerm":
		return true
	case termProgram == "mintty" || os.Getenv("TERM") == "mintty":
		return true
	case termProgram == "rio":
		return true
	case termProgram == "WarpTerminal":
		return true
	case termProgram == "vscode" && os.Getenv("TERM_PROGRAM_VERSION") != "":
		return true
	}

	return probeTTY("\x1b[1337n", func(response string) bool {
		return strings.Contains(response, "1337")
	})
}

// sixelSupported checks for DCS sixel graphics.
func sixelSupported() bool {
	termEnv := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	switch {
	case strings.Contains(termEnv, "sixel"):
		return true
	case strings.Contains(termEnv, "mlterm") || strings.Contains(termProgram, "mlterm"):
		return true
	case strings.Contains(termEnv, "foot"):
		return true
	case strings.Contains(termEnv, "yaft"):
		return true
	case termProgram == "mintty":
		return true
	case strings.Contains(termEnv, "xterm") && os.Getenv("XTERM_VERSION") != "":
		// xterm needs to be started with -ti 340
		return true
	}

	// Primary Device Attributes: capability 4 means sixel
	return probeTTY("\x1b[c", func(response string) bool {
		return strings.Contains(response, ";4;") || strings.Contains(response, ";4c")
	})
}

// halfblocksSupported requires an interactive terminal with a UTF-8 locale.
func halfblocksSupported() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return utf8Locale()
}

// utf8Locale checks the usual locale variables, first set wins. No locale
// at all counts as UTF-8 capable; that is what modern terminals default to.
func utf8Locale() bool {
	for _, v := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if val := os.Getenv(v); val != "" {
			return strings.Contains(strings.ToUpper(val), "UTF-8") ||
				strings.Contains(strings.ToUpper(val), "UTF8")
		}
	}
	return true
}

// probeTTY writes a query to the controlling terminal in raw mode and reports
// whether the response satisfies want within probeTimeout.
func probeTTY(seq string, want func(response string) bool) bool {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(wrapTmuxPassthrough(seq)); err != nil {
		return false
	}

	responseChan := make(chan bool, 1)
	go func() {
		buf := make([]byte, 256)
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			responseChan <- false
			return
		}
		responseChan <- want(string(buf[:n]))
	}()

	select {
	case result := <-responseChan:
		return result
	case <-time.After(probeTimeout):
		return false
	}
}
