package pixelterm

import (
	"bytes"
	"fmt"
	"os/exec"
)

// lookupChafa locates the chafa binary on PATH.
func lookupChafa() (string, error) {
	path, err := exec.LookPath("chafa")
	if err != nil {
		return "", ErrRasterizerMissing
	}
	return path, nil
}

// chafaFormat maps a protocol to chafa's --format value.
func chafaFormat(p Protocol) string {
	switch p {
	case Kitty:
		return "kitty"
	case ITerm2:
		return "iterm"
	case Sixel:
		return "sixels"
	default:
		return "symbols"
	}
}

// renderChafa shells out to chafa for rasterization. The binary was
// located when the renderer was built, so a failure here is a
// per-image problem (unreadable or corrupt file), not a missing tool.
func (r *Renderer) renderChafa(path string, box RenderBox) ([]byte, error) {
	args := []string{
		"--format", chafaFormat(r.protocol),
		"--size", fmt.Sprintf("%dx%d", box.WidthCells, box.HeightCells),
		"--animate", "off",
	}
	if inTmux() {
		args = append(args, "--passthrough", "tmux")
	}
	args = append(args, path)

	out, err := exec.Command(r.chafaPath, args...).Output()
	if err != nil {
		return nil, renderErr(path, fmt.Errorf("chafa: %w", err))
	}
	if r.protocol.Tier() != TierGraphics {
		// raw mode needs explicit carriage returns
		out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out, nil
}
