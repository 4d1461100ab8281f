//go:build !unix

package pixelterm

// cellSizeFromIoctl is unavailable without TIOCGWINSZ; callers fall back to
// CSI queries or the static table.
func cellSizeFromIoctl() (width, height int, ok bool) {
	return 0, 0, false
}
