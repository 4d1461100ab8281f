/*
Package pixelterm is the core of an interactive terminal image browser.

It detects the best graphics protocol the terminal supports (Kitty,
iTerm2, Sixel, Unicode halfblocks, or plain symbols), sizes frames to
the terminal cell grid while preserving aspect ratio, decodes raw
keyboard bytes into navigation commands, and drives a single-writer
browse loop with background preloading of neighbor images.

Running a full session:

	code, err := pixelterm.Run(pixelterm.Options{
	    Path:           "~/Pictures",
	    WrapAround:     true,
	    PreloadEnabled: true,
	    PreloadWindow:  1,
	    ReservedRows:   2,
	})
	if err != nil {
	    fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)

The building blocks are exported for embedding in other tools:

	protocol := pixelterm.Detect()
	geo := pixelterm.CurrentGeometry(true)

	r, err := pixelterm.NewRenderer(protocol, pixelterm.BackendBuiltin, 2)
	if err != nil {
	    log.Fatal(err)
	}
	frame, err := r.RenderFor(entry, geo)

	dec := pixelterm.NewDecoder()
	for _, cmd := range dec.Feed(b) {
	    // cmd is a logical command: CmdNext, CmdQuit, ...
	}

Protocol detection checks well-known environment variables first and
falls back to bounded-time terminal probes on /dev/tty. Probes only
run before the interactive loop takes over the input stream. Inside
tmux, graphics escapes are wrapped for passthrough automatically.
*/
package pixelterm
