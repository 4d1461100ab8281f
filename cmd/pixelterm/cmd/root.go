/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blacktop/pixelterm"
	"github.com/blacktop/pixelterm/internal/config"
	"github.com/blacktop/pixelterm/internal/logging"
)

var (
	cfgPath   string
	noPreload bool
	protocol  string
	backend   string
	pattern   string
	logFile   string
	verbose   bool

	exitCode int
)

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/pixelterm/config.toml)")
	rootCmd.Flags().BoolVar(&noPreload, "no-preload", false, "Disable background preloading of neighbor images")
	rootCmd.Flags().StringVarP(&protocol, "protocol", "p", "", "Force a graphics protocol (kitty, iterm2, sixel, halfblocks, symbols)")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "", "Rasterizer backend (builtin, chafa)")
	rootCmd.Flags().StringVar(&pattern, "pattern", "", "Only browse files matching this glob")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Enable debug logging (needs --log-file or log.file in config)")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pixelterm [path]",
	Short: "Browse images in your terminal.",
	Long: `Browse images in your terminal.

pixelterm shows one image at a time using the best graphics protocol
the terminal supports (kitty, iTerm2, sixel, half-blocks, or plain
symbols). Point it at a directory to browse everything in it, or at a
single image to start there; no argument means the current directory.

Keys: a/d or arrows navigate, i toggles file details, x deletes after
confirmation, r rescans the directory, q quits.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		// flags win over the config file
		if protocol == "" {
			protocol = cfg.Render.Protocol
		}
		if backend == "" {
			backend = cfg.Render.Backend
		}
		if pattern == "" {
			pattern = cfg.Scan.Pattern
		}
		if logFile == "" {
			logFile = cfg.Log.File
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if err := logging.Init(logFile, level); err != nil {
			return fmt.Errorf("logging: %w", err)
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}

		code, err := pixelterm.Run(pixelterm.Options{
			Path:           path,
			Pattern:        pattern,
			Protocol:       protocol,
			Backend:        backend,
			WrapAround:     cfg.Wrap(),
			PreloadEnabled: cfg.PreloadEnabled() && !noPreload,
			PreloadWindow:  cfg.Preload.Window,
			ReservedRows:   cfg.Render.ReservedStatusRows,
			EscapeTimeout:  cfg.EscapeTimeout(),
		})
		if err != nil {
			return err
		}
		exitCode = code
		return nil
	},
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pixelterm:", err)
		return pixelterm.ExitStartup
	}
	return exitCode
}
