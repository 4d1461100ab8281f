//go:build unix

package pixelterm

import (
	"os"

	"golang.org/x/sys/unix"
)

// cellSizeFromIoctl reads the cell pixel size from the kernel. Most modern
// terminal emulators fill in the pixel fields of the winsize struct.
func cellSizeFromIoctl() (width, height int, ok bool) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, false
	}
	if ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 0, 0, false
	}
	return int(ws.Xpixel) / int(ws.Col), int(ws.Ypixel) / int(ws.Row), true
}
