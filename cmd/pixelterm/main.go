package main

import (
	"os"

	"github.com/blacktop/pixelterm/cmd/pixelterm/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
