/*
Package csi issues CSI (Control Sequence Introducer) queries against the
controlling terminal and parses the responses.
*/
package csi

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// QueryTimeout bounds how long a query waits for a terminal response.
const QueryTimeout = 100 * time.Millisecond

// query writes a CSI query to /dev/tty in raw mode and hands the raw response
// to parse. Returns false when the terminal stays silent past QueryTimeout.
func query(seq string, parse func(response string) (w, h int, ok bool)) (w, h int, ok bool) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return 0, 0, false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0, false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(wrapTmuxPassthrough(seq)); err != nil {
		return 0, 0, false
	}

	type result struct {
		w, h int
		ok   bool
	}
	responseChan := make(chan result, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			responseChan <- result{}
			return
		}
		w, h, ok := parse(string(buf[:n]))
		responseChan <- result{w, h, ok}
	}()

	select {
	case r := <-responseChan:
		return r.w, r.h, r.ok
	case <-time.After(QueryTimeout):
		return 0, 0, false
	}
}

// QueryCellSize queries the character cell size in pixels using CSI 16t.
func QueryCellSize() (width, height int, ok bool) {
	return query("\x1b[16t", func(response string) (int, int, bool) {
		// Response: CSI 6 ; height ; width t
		var w, h int
		if strings.Contains(response, "[6;") {
			parts := strings.Split(response, ";")
			if len(parts) >= 3 {
				fmt.Sscanf(parts[1], "%d", &h)
				fmt.Sscanf(parts[2], "%dt", &w)
			}
		}
		return w, h, w > 0 && h > 0
	})
}

// QueryTextAreaSize queries the text area size in pixels using CSI 14t.
func QueryTextAreaSize() (width, height int, ok bool) {
	return query("\x1b[14t", func(response string) (int, int, bool) {
		// Response: CSI 4 ; height ; width t
		var w, h int
		if strings.Contains(response, "[4;") {
			parts := strings.Split(response, ";")
			if len(parts) >= 3 {
				fmt.Sscanf(parts[1], "%d", &h)
				fmt.Sscanf(parts[2], "%dt", &w)
			}
		}
		return w, h, w > 0 && h > 0
	})
}

// QueryFontSize derives the cell size by dividing the text area pixel size by
// the terminal size in characters. Useful when CSI 16t is unsupported.
func QueryFontSize() (width, height int, ok bool) {
	pxW, pxH, ok := QueryTextAreaSize()
	if !ok {
		return 0, 0, false
	}
	cols, rows, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return 0, 0, false
	}

	width = pxW / cols
	height = pxH / rows

	// cell sizes outside 4..50 px mean the terminal answered nonsense
	if width < 4 || width > 50 || height < 4 || height > 50 {
		return 0, 0, false
	}
	return width, height, true
}

// QuerySupported reports whether the terminal is likely to answer CSI queries.
func QuerySupported() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal":
		// ships with CSI queries disabled
		return false
	case "vscode":
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

func wrapTmuxPassthrough(output string) string {
	if inTmux() {
		if !strings.HasPrefix(output, "\x1b") {
			return output
		}
		return "\x1bPtmux;\x1b" + strings.ReplaceAll(output, "\x1b", "\x1b\x1b") + "\x1b\\"
	}
	return output
}
