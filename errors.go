package pixelterm

import (
	"errors"
	"fmt"
)

// Startup errors abort before the interactive session begins.
var (
	// ErrNoImages means the scanned location contains no supported images.
	ErrNoImages = errors.New("no supported images found")

	// ErrNotImage means an explicit file argument has an unsupported extension.
	ErrNotImage = errors.New("not a supported image file")

	// ErrRasterizerMissing means the configured external rasterizer is not
	// installed. pixelterm cannot start without it.
	ErrRasterizerMissing = errors.New("chafa not found in PATH (install it: https://hpjansson.org/chafa/download/)")
)

// RenderError reports a failure to render a single entry. It is recoverable:
// the viewer shows a placeholder and navigation continues.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func renderErr(path string, err error) error {
	return &RenderError{Path: path, Err: err}
}
