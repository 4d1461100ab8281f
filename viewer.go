package pixelterm

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/cancelreader"

	"github.com/blacktop/pixelterm/internal/logging"
)

// Exit codes reported by Run.
const (
	ExitOK      = 0
	ExitStartup = 1
	ExitSignal  = 130
)

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// Options configures a browse session. cmd/pixelterm builds one from
// the config file and command line flags.
type Options struct {
	Path           string // file or directory to browse, "" means cwd
	Pattern        string // optional glob narrowing the listing
	Protocol       string // force a protocol instead of detecting one
	Backend        string // "builtin" or "chafa"
	WrapAround     bool
	PreloadEnabled bool
	PreloadWindow  int
	ReservedRows   int
	EscapeTimeout  time.Duration
}

// Run drives a complete interactive session and returns the process
// exit code. Everything that can fail does so before the terminal is
// touched, with ExitStartup and an error for the caller to print; once
// the loop starts, failures stay inside the session.
func Run(opts Options) (int, error) {
	entries, start, err := Scan(opts.Path, opts.Pattern)
	if err != nil {
		return ExitStartup, err
	}

	var protocol Protocol
	if opts.Protocol != "" {
		protocol, err = ParseProtocol(opts.Protocol)
		if err != nil {
			return ExitStartup, err
		}
	} else {
		protocol = Detect()
	}

	backend, err := ParseBackend(opts.Backend)
	if err != nil {
		return ExitStartup, err
	}

	renderer, err := NewRenderer(protocol, backend, opts.ReservedRows)
	if err != nil {
		return ExitStartup, err
	}

	if opts.PreloadWindow <= 0 {
		opts.PreloadWindow = 1
	}
	if opts.EscapeTimeout <= 0 {
		opts.EscapeTimeout = 50 * time.Millisecond
	}

	// geometry probes must finish before the loop owns the input
	// stream; from here on only the ioctl path may re-sample
	geo := CurrentGeometry(true)

	session, err := NewSession()
	if err != nil {
		return ExitStartup, err
	}
	defer session.Close()

	v := &viewer{
		session:    session,
		renderer:   renderer,
		browser:    NewBrowser(entries, start, opts.WrapAround),
		decoder:    NewDecoder(),
		geo:        geo,
		out:        bufio.NewWriterSize(session.Out(), 1<<16),
		dir:        filepath.Dir(entries[0].Path),
		pattern:    opts.Pattern,
		window:     opts.PreloadWindow,
		escTimeout: opts.EscapeTimeout,
	}
	if opts.PreloadEnabled {
		v.preload = NewPreloader(renderer)
	}

	logging.Info("session start: %d images in %s, protocol=%s backend=%s %dx%d",
		len(entries), v.dir, protocol, backend, geo.Cols, geo.Rows)

	return v.run()
}

// viewer is the foreground loop state. It is the single writer of the
// terminal output stream and the only goroutine touching the browser.
type viewer struct {
	session  *Session
	renderer *Renderer
	browser  *Browser
	preload  *Preloader
	decoder  *Decoder

	geo        ViewportGeometry
	out        *bufio.Writer
	dir        string // rescans re-read this directory
	pattern    string
	window     int
	escTimeout time.Duration

	frame  *RenderedFrame // what is on screen, nil when a placeholder is
	notice string
	force  bool
}

func (v *viewer) run() (int, error) {
	reader, err := cancelreader.NewReader(v.session.In())
	if err != nil {
		return ExitStartup, fmt.Errorf("input reader: %w", err)
	}
	defer func() {
		reader.Cancel()
		reader.Close()
	}()

	keys := make(chan byte, 64)
	go func() {
		defer close(keys)
		buf := make([]byte, 64)
		for {
			n, err := reader.Read(buf)
			if err != nil {
				return
			}
			for _, b := range buf[:n] {
				keys <- b
			}
		}
	}()

	winch := make(chan os.Signal, 1)
	notifyResize(winch)
	defer signal.Stop(winch)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	v.display()
	v.ensure()

	for v.browser.Mode() != ModeTerminating {
		// a resize that arrived between two input bytes is applied
		// before the next command
		select {
		case <-winch:
			v.resize()
			continue
		default:
		}

		var escExpire <-chan time.Time
		if v.decoder.Pending() {
			escExpire = time.After(v.escTimeout)
		}

		select {
		case b, ok := <-keys:
			if !ok {
				// input stream gone, terminal likely closed
				v.apply(CmdQuit)
				continue
			}
			for _, cmd := range v.decoder.Feed(b) {
				v.apply(cmd)
			}
		case <-escExpire:
			v.decoder.Flush()
		case <-winch:
			v.resize()
		case <-sigs:
			v.apply(CmdForceQuit)
		}
	}

	v.preload.Close()
	v.cleanup()

	if v.force {
		logging.Info("session end: forced")
		return ExitSignal, nil
	}
	logging.Info("session end")
	return ExitOK, nil
}

// apply feeds one command through the state machine and draws whatever
// the resulting mode requires.
func (v *viewer) apply(cmd Command) {
	update := v.browser.Apply(cmd)
	v.notice = update.Notice
	if update.Force {
		v.force = true
	}
	if update.Quit {
		return
	}
	if update.Rescan {
		v.rescan()
		return
	}

	switch v.browser.Mode() {
	case ModeInfoOverlay:
		v.displayInfo()
	case ModeDeleteConfirm:
		v.drawStatus()
	case ModeBrowsing:
		if update.Render {
			v.display()
			v.ensure()
		} else {
			v.drawStatus()
		}
	case ModeTerminating:
	}
}

// display puts the current entry on screen. The frame already showing
// is reused when entry and geometry still match, then the preload
// cache is probed, and only then does a synchronous render run. A
// frame stamped with stale geometry is never written.
func (v *viewer) display() {
	entry := v.browser.Current()

	frame := v.frame
	if frame != nil && (frame.Entry.Path != entry.Path || !frame.ValidFor(v.geo)) {
		frame = nil
	}
	if frame == nil {
		frame = v.preload.Get(entry)
	}
	if frame == nil || !frame.ValidFor(v.geo) {
		rendered, err := v.renderer.RenderFor(entry, v.geo)
		if err != nil {
			logging.Warn("render %s: %v", entry.Path, err)
			v.frame = nil
			v.placeholder(entry, err)
			return
		}
		frame = rendered
	}
	v.frame = frame

	v.clearScreen()
	v.out.Write(frame.Payload)
	v.drawStatus()
	v.out.Flush()
}

// ensure keeps the preload window warm around the new position.
func (v *viewer) ensure() {
	v.preload.Ensure(v.browser.Window(v.window), v.geo)
	v.preload.Put(v.frame)
}

// placeholder stands in for an entry that cannot be rendered, keeping
// navigation alive for it.
func (v *viewer) placeholder(entry ImageEntry, err error) {
	v.clearScreen()
	row := v.geo.Rows / 2
	if row < 1 {
		row = 1
	}
	msg := runewidth.Truncate("cannot display "+entry.Name(), v.geo.Cols, "…")
	v.out.WriteString(fmt.Sprintf("\x1b[%d;1H", row))
	v.out.WriteString(centerLine(titleStyle.Render(msg), v.geo.Cols))
	v.out.WriteString("\r\n")
	v.out.WriteString(centerLine(runewidth.Truncate(err.Error(), v.geo.Cols, "…"), v.geo.Cols))
	v.drawStatus()
	v.out.Flush()
}

// displayInfo draws the full-screen detail page. The frame underneath
// stays in memory and is redrawn from its payload on dismissal, the
// image is not rasterized again.
func (v *viewer) displayInfo() {
	entry := v.browser.Current()

	var lines []string
	info, err := GatherInfo(entry, v.browser.Len())
	if err != nil {
		lines = []string{entry.Name(), "", fmt.Sprintf("unavailable: %v", err)}
	} else {
		lines = info.Lines()
	}

	v.clearScreen()
	for i, line := range lines {
		if i >= v.geo.Rows-1 {
			break
		}
		line = runewidth.Truncate(line, v.geo.Cols, "…")
		if i == 0 {
			line = titleStyle.Render(line)
		}
		v.out.WriteString(line)
		v.out.WriteString("\r\n")
	}
	v.drawStatus()
	v.out.Flush()
}

// resize re-samples geometry, drops every cached frame, and re-renders
// whatever is on screen at the new size. Only the ioctl path runs
// here: escape probes would race the keyboard stream mid-session.
func (v *viewer) resize() {
	geo := CurrentGeometry(false)
	if geo.Equal(v.geo) {
		return
	}
	logging.Debug("resize %dx%d -> %dx%d", v.geo.Cols, v.geo.Rows, geo.Cols, geo.Rows)
	v.geo = geo
	v.preload.Invalidate(geo)
	v.frame = nil

	switch v.browser.Mode() {
	case ModeInfoOverlay:
		v.displayInfo()
	default:
		v.display()
		v.ensure()
	}
}

// rescan rebuilds the image list from the session directory.
func (v *viewer) rescan() {
	entries, start, err := Scan(v.dir, v.pattern)
	if err != nil {
		logging.Warn("rescan %s: %v", v.dir, err)
		v.notice = fmt.Sprintf("rescan: %v", err)
		v.drawStatus()
		return
	}
	logging.Info("rescan %s: %d images", v.dir, len(entries))
	update := v.browser.Reload(entries, start)
	v.notice = update.Notice
	v.display()
	v.ensure()
}

// cleanup erases the session's output before the terminal goes back to
// the shell.
func (v *viewer) cleanup() {
	v.clearScreen()
	v.out.Flush()
}

func (v *viewer) clearScreen() {
	if v.renderer.Protocol() == Kitty {
		v.out.Write(kittyClearAll())
	}
	v.out.WriteString("\x1b[2J\x1b[H")
}

func (v *viewer) drawStatus() {
	row := v.geo.Rows
	if row < 1 {
		row = 1
	}
	v.out.WriteString(fmt.Sprintf("\x1b[%d;1H\x1b[2K", row))
	v.out.WriteString(v.statusLine())
	v.out.Flush()
}

func (v *viewer) statusLine() string {
	width := v.geo.Cols
	if width <= 0 {
		return ""
	}

	if v.browser.Mode() == ModeDeleteConfirm {
		prompt := fmt.Sprintf("Delete %s? (y/n)", v.browser.Current().Name())
		return promptStyle.Render(runewidth.Truncate(prompt, width, "…"))
	}

	left := v.notice
	if left == "" {
		left = fmt.Sprintf("[%d/%d] %s", v.browser.Index()+1, v.browser.Len(), v.browser.Current().Name())
	}
	left = runewidth.Truncate(left, width, "…")

	hints := "a/d navigate  i info  x delete  q quit"
	if v.browser.Mode() == ModeInfoOverlay {
		hints = "i close  a/d navigate  q quit"
	}

	pad := width - runewidth.StringWidth(left) - runewidth.StringWidth(hints)
	if pad >= 2 {
		return statusStyle.Render(left + strings.Repeat(" ", pad) + hints)
	}
	return statusStyle.Render(left)
}

// centerLine pads s to the middle of the row. Width is measured with
// lipgloss so styled text centers the same as plain text.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
