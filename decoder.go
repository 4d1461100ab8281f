package pixelterm

// Command is a decoded, protocol-agnostic user intent. Raw input bytes
// are translated into Commands by the Decoder; everything downstream of
// it works in these terms and never sees the wire encoding.
type Command int

const (
	// CmdNext advances to the next image ('d', right arrow).
	CmdNext Command = iota
	// CmdPrevious steps back to the previous image ('a', left arrow).
	CmdPrevious
	// CmdUp is decoded so the up arrow is consumed cleanly, but carries
	// no navigation semantics.
	CmdUp
	// CmdDown is the down-arrow counterpart of CmdUp.
	CmdDown
	// CmdQuit ends the session normally ('q').
	CmdQuit
	// CmdForceQuit ends the session immediately (ctrl-c, SIGINT/SIGTERM).
	CmdForceQuit
	// CmdToggleInfo shows or hides the image detail page ('i').
	CmdToggleInfo
	// CmdDeleteRequest asks to delete the current image ('x', Delete key).
	CmdDeleteRequest
	// CmdConfirmYes answers a pending confirmation ('y').
	CmdConfirmYes
	// CmdConfirmNo declines a pending confirmation ('n').
	CmdConfirmNo
	// CmdRescan re-reads the directory listing ('r').
	CmdRescan
)

func (c Command) String() string {
	switch c {
	case CmdNext:
		return "next"
	case CmdPrevious:
		return "previous"
	case CmdUp:
		return "up"
	case CmdDown:
		return "down"
	case CmdQuit:
		return "quit"
	case CmdForceQuit:
		return "force-quit"
	case CmdToggleInfo:
		return "toggle-info"
	case CmdDeleteRequest:
		return "delete-request"
	case CmdConfirmYes:
		return "confirm-yes"
	case CmdConfirmNo:
		return "confirm-no"
	case CmdRescan:
		return "rescan"
	}
	return "unknown"
}

type decoderState int

const (
	stateIdle decoderState = iota
	statePendingEscape
	statePendingCSI
	statePendingSS3
)

// csiMaxLen bounds how many bytes a control sequence may accumulate
// before the decoder drops it as noise.
const csiMaxLen = 8

// Decoder turns the raw byte stream of a terminal in raw mode into
// logical commands. Arrow keys arrive as multi-byte escape sequences,
// one byte at a time and interleaved arbitrarily with single-byte
// keys, so the decoder is a small state machine fed one byte per call.
//
// The decoder itself never blocks and keeps no timers. When Pending
// reports true the caller arms the inter-byte timeout and calls Flush
// if it fires, which discards the half-read sequence so a lone ESC
// press cannot wedge input forever.
type Decoder struct {
	state decoderState
	buf   []byte
}

func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, csiMaxLen)}
}

// Pending reports whether the decoder sits mid-sequence.
func (d *Decoder) Pending() bool {
	return d.state != stateIdle
}

// Feed consumes one input byte and returns the commands it completes,
// usually none or one.
func (d *Decoder) Feed(b byte) []Command {
	switch d.state {
	case statePendingEscape:
		switch b {
		case '[':
			d.state = statePendingCSI
			d.buf = append(d.buf, b)
			return nil
		case 'O':
			d.state = statePendingSS3
			d.buf = append(d.buf, b)
			return nil
		default:
			// not a sequence introducer: the ESC was a stray byte,
			// drop it and reprocess this byte on its own
			d.reset()
			return d.feedIdle(b)
		}
	case statePendingCSI:
		return d.feedCSI(b)
	case statePendingSS3:
		// SS3 encodes exactly one final byte (application cursor mode)
		d.reset()
		if cmd, ok := arrowCommand(b); ok {
			return []Command{cmd}
		}
		return nil
	default:
		return d.feedIdle(b)
	}
}

// Flush abandons a partially accumulated sequence. Called by the
// foreground loop when the inter-byte timeout fires; an abandoned
// sequence emits nothing.
func (d *Decoder) Flush() []Command {
	d.reset()
	return nil
}

func (d *Decoder) feedIdle(b byte) []Command {
	if b == 0x1b {
		d.state = statePendingEscape
		d.buf = append(d.buf[:0], b)
		return nil
	}
	if cmd, ok := keyCommand(b); ok {
		return []Command{cmd}
	}
	return nil
}

func (d *Decoder) feedCSI(b byte) []Command {
	// 0x20..0x3F are parameter and intermediate bytes, they keep the
	// sequence open
	if b >= 0x20 && b <= 0x3f {
		d.buf = append(d.buf, b)
		if len(d.buf) > csiMaxLen {
			d.reset()
		}
		return nil
	}
	// 0x40..0x7E terminates a control sequence
	if b >= 0x40 && b <= 0x7e {
		cmds := d.csiCommand(b)
		d.reset()
		return cmds
	}
	// anything else is noise
	d.reset()
	return nil
}

// csiCommand maps a complete CSI sequence to a command. Arrows are
// recognized by their final byte alone so modifier variants like
// "\x1b[1;5C" still navigate.
func (d *Decoder) csiCommand(final byte) []Command {
	if cmd, ok := arrowCommand(final); ok {
		return []Command{cmd}
	}
	if final == '~' && string(d.buf) == "\x1b[3" {
		// the Delete key; other tilde sequences (Home, End, PgUp...)
		// are discarded
		return []Command{CmdDeleteRequest}
	}
	return nil
}

func (d *Decoder) reset() {
	d.state = stateIdle
	d.buf = d.buf[:0]
}

func arrowCommand(final byte) (Command, bool) {
	switch final {
	case 'A':
		return CmdUp, true
	case 'B':
		return CmdDown, true
	case 'C':
		return CmdNext, true
	case 'D':
		return CmdPrevious, true
	}
	return 0, false
}

func keyCommand(b byte) (Command, bool) {
	switch b {
	case 'q':
		return CmdQuit, true
	case 0x03: // ctrl-c
		return CmdForceQuit, true
	case 'a':
		return CmdPrevious, true
	case 'd':
		return CmdNext, true
	case 'i':
		return CmdToggleInfo, true
	case 'r':
		return CmdRescan, true
	case 'x':
		return CmdDeleteRequest, true
	case 'y':
		return CmdConfirmYes, true
	case 'n':
		return CmdConfirmNo, true
	}
	return 0, false
}
