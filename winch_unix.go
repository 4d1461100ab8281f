//go:build unix

package pixelterm

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// notifyResize registers ch for terminal size change signals. The
// channel is buffered with capacity one, so a burst of resizes
// coalesces into a single pending delivery the loop applies before the
// next command.
func notifyResize(ch chan<- os.Signal) {
	signal.Notify(ch, unix.SIGWINCH)
}
