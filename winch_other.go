//go:build !unix

package pixelterm

import "os"

// notifyResize is a no-op where SIGWINCH does not exist; geometry is
// sampled once per session start.
func notifyResize(ch chan<- os.Signal) {}
