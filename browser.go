package pixelterm

import (
	"fmt"
	"os"

	"github.com/blacktop/pixelterm/internal/logging"
)

// Mode is the interaction state of the browse session. The set is
// closed: every command handler switches over it exhaustively.
type Mode int

const (
	// ModeBrowsing is the normal state, one image on screen.
	ModeBrowsing Mode = iota
	// ModeInfoOverlay shows the detail page for the current image.
	ModeInfoOverlay
	// ModeDeleteConfirm waits for a yes/no answer before deleting.
	ModeDeleteConfirm
	// ModeTerminating means the session is over and nothing may be
	// rendered anymore.
	ModeTerminating
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeInfoOverlay:
		return "info-overlay"
	case ModeDeleteConfirm:
		return "delete-confirm"
	case ModeTerminating:
		return "terminating"
	}
	return "unknown"
}

// Update tells the foreground loop what a command changed. The loop
// redraws the status line after every command regardless; Render asks
// for the current image to be displayed again on top of that.
type Update struct {
	Render bool   // display the current entry (cache hit or fresh render)
	Rescan bool   // rebuild the image list from disk
	Notice string // transient status message, cleared by the next command
	Quit   bool   // leave the loop
	Force  bool   // leave with the signal-driven exit code
}

// Browser is the navigation state machine. It owns the image list, the
// current index, and the interaction mode. Only the foreground loop
// touches it, so it needs no locking; background preloads receive
// entry snapshots, never the live list.
type Browser struct {
	entries []ImageEntry
	current int
	mode    Mode
	wrap    bool

	// removeFile performs the destructive half of a confirmed delete.
	// Swapped out in tests.
	removeFile func(string) error
}

// NewBrowser builds a browser over a scanned image list. wrap selects
// cyclic navigation (Next on the last image returns to the first)
// instead of clamping at the ends.
func NewBrowser(entries []ImageEntry, start int, wrap bool) *Browser {
	if start < 0 || start >= len(entries) {
		start = 0
	}
	return &Browser{
		entries:    entries,
		current:    start,
		mode:       ModeBrowsing,
		wrap:       wrap,
		removeFile: os.Remove,
	}
}

// Mode returns the current interaction mode.
func (b *Browser) Mode() Mode { return b.mode }

// Len returns the number of images in the list.
func (b *Browser) Len() int { return len(b.entries) }

// Index returns the current position in the list.
func (b *Browser) Index() int { return b.current }

// Current returns the entry under the cursor. Only meaningful while
// the list is non-empty; after the last image is deleted the browser
// is terminating and nothing asks for it anymore.
func (b *Browser) Current() ImageEntry {
	if len(b.entries) == 0 {
		return ImageEntry{}
	}
	return b.entries[b.current]
}

// Window returns the entries within distance w of the current index,
// current entry first, for preload scheduling. Neighbor order
// alternates forward/backward so the likeliest next image is rendered
// first. Wraps across the list ends when cyclic navigation is on.
func (b *Browser) Window(w int) []ImageEntry {
	n := len(b.entries)
	if n == 0 {
		return nil
	}
	seen := make(map[int]bool, 2*w+1)
	out := make([]ImageEntry, 0, 2*w+1)
	add := func(idx int) {
		if b.wrap {
			idx = ((idx % n) + n) % n
		}
		if idx < 0 || idx >= n || seen[idx] {
			return
		}
		seen[idx] = true
		out = append(out, b.entries[idx])
	}
	add(b.current)
	for d := 1; d <= w; d++ {
		add(b.current + d)
		add(b.current - d)
	}
	return out
}

// Apply feeds one logical command through the state machine and
// reports what the loop must do next. Commands that make no sense in
// the current mode are ignored, never errors.
func (b *Browser) Apply(cmd Command) Update {
	// quit wins in every mode
	switch cmd {
	case CmdQuit:
		b.mode = ModeTerminating
		return Update{Quit: true}
	case CmdForceQuit:
		b.mode = ModeTerminating
		return Update{Quit: true, Force: true}
	}

	switch b.mode {
	case ModeBrowsing:
		return b.applyBrowsing(cmd)
	case ModeInfoOverlay:
		return b.applyInfoOverlay(cmd)
	case ModeDeleteConfirm:
		return b.applyDeleteConfirm(cmd)
	default:
		return Update{}
	}
}

func (b *Browser) applyBrowsing(cmd Command) Update {
	switch cmd {
	case CmdNext:
		return b.step(1)
	case CmdPrevious:
		return b.step(-1)
	case CmdToggleInfo:
		b.mode = ModeInfoOverlay
		return Update{}
	case CmdDeleteRequest:
		b.mode = ModeDeleteConfirm
		return Update{}
	case CmdRescan:
		return Update{Rescan: true}
	}
	// up/down and stray y/n carry no meaning here
	return Update{}
}

func (b *Browser) applyInfoOverlay(cmd Command) Update {
	switch cmd {
	case CmdToggleInfo:
		b.mode = ModeBrowsing
		return Update{Render: true}
	case CmdNext:
		b.mode = ModeBrowsing
		u := b.step(1)
		u.Render = true // the overlay must be replaced even if the index clamped
		return u
	case CmdPrevious:
		b.mode = ModeBrowsing
		u := b.step(-1)
		u.Render = true
		return u
	case CmdDeleteRequest:
		b.mode = ModeDeleteConfirm
		return Update{}
	}
	return Update{}
}

func (b *Browser) applyDeleteConfirm(cmd Command) Update {
	if cmd == CmdConfirmYes {
		return b.deleteCurrent()
	}
	// anything but an explicit yes declines
	b.mode = ModeBrowsing
	return Update{Render: true}
}

// step moves the cursor by delta, wrapping or clamping at the ends.
func (b *Browser) step(delta int) Update {
	n := len(b.entries)
	if n == 0 {
		return Update{}
	}
	next := b.current + delta
	if b.wrap {
		next = ((next % n) + n) % n
	} else if next < 0 {
		next = 0
	} else if next >= n {
		next = n - 1
	}
	if next == b.current {
		return Update{}
	}
	b.current = next
	return Update{Render: true}
}

// deleteCurrent removes the current image from disk and from the list.
// A failed remove keeps the list intact and surfaces as a transient
// notice; the machine returns to Browsing either way.
func (b *Browser) deleteCurrent() Update {
	entry := b.entries[b.current]
	b.mode = ModeBrowsing

	if err := b.removeFile(entry.Path); err != nil {
		logging.Warn("delete %s: %v", entry.Path, err)
		return Update{Render: true, Notice: fmt.Sprintf("delete failed: %v", err)}
	}
	logging.Info("deleted %s", entry.Path)

	b.entries = append(b.entries[:b.current], b.entries[b.current+1:]...)
	for i := range b.entries {
		b.entries[i].Index = i
	}

	if len(b.entries) == 0 {
		b.mode = ModeTerminating
		return Update{Quit: true}
	}
	if b.current >= len(b.entries) {
		// deleted the last entry: the next valid one is the first
		// when wrapping, the new last otherwise
		if b.wrap {
			b.current = 0
		} else {
			b.current = len(b.entries) - 1
		}
	}
	return Update{Render: true, Notice: "deleted " + entry.Name()}
}

// Reload replaces the image list after a rescan, keeping the current
// image selected when it survived.
func (b *Browser) Reload(entries []ImageEntry, start int) Update {
	cur := ""
	if len(b.entries) > 0 {
		cur = b.entries[b.current].Path
	}
	b.entries = entries
	b.current = 0
	if start > 0 && start < len(entries) {
		b.current = start
	}
	for i, e := range entries {
		if e.Path == cur {
			b.current = i
			break
		}
	}
	return Update{Render: true, Notice: fmt.Sprintf("%d images", len(entries))}
}
