package pixelterm

import (
	"fmt"
	"strings"
)

// Protocol identifies the terminal graphics protocol used to draw images.
type Protocol int

const (
	// Kitty graphics protocol (kitty, ghostty, WezTerm, Konsole, rio)
	Kitty Protocol = iota
	// ITerm2 inline images protocol (OSC 1337)
	ITerm2
	// Sixel DCS bitmap graphics (xterm -ti 340, foot, mlterm, ...)
	Sixel
	// Halfblocks renders two pixels per cell with Unicode half blocks
	Halfblocks
	// Symbols renders plain ASCII and works on any terminal
	Symbols
)

// Tier is the resolution class of a protocol.
type Tier int

const (
	// TierGraphics protocols place real pixels
	TierGraphics Tier = iota
	// TierMosaic protocols approximate pixels with colored cells
	TierMosaic
	// TierSymbol protocols emit plain text
	TierSymbol
)

func (p Protocol) String() string {
	switch p {
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm2"
	case Sixel:
		return "sixel"
	case Halfblocks:
		return "halfblocks"
	case Symbols:
		return "symbols"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// Tier returns the resolution class of p.
func (p Protocol) Tier() Tier {
	switch p {
	case Kitty, ITerm2, Sixel:
		return TierGraphics
	case Halfblocks:
		return TierMosaic
	case Symbols:
		return TierSymbol
	default:
		return TierSymbol
	}
}

func (t Tier) String() string {
	switch t {
	case TierGraphics:
		return "graphics"
	case TierMosaic:
		return "mosaic"
	case TierSymbol:
		return "symbol"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// ParseProtocol converts a user-supplied name into a Protocol.
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kitty":
		return Kitty, nil
	case "iterm2", "iterm":
		return ITerm2, nil
	case "sixel":
		return Sixel, nil
	case "halfblocks", "blocks":
		return Halfblocks, nil
	case "symbols", "ascii":
		return Symbols, nil
	default:
		return Symbols, fmt.Errorf("unknown protocol %q", s)
	}
}
