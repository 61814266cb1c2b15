package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┬ ┬┌┬┐┌─┐┬┌─┬┌┬┐
  ├┬┘│ ││ │ │ ├┤ ├┴┐│ │
  ┴└─└─┘└─┘ ┴ └─┘┴ ┴┴ ┴
`

// globalFlags are shared by every command.
type globalFlags struct {
	dir      string
	manifest string
	verbose  bool
	noColor  bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Inspect and serve route manifests",
		Long: `routekit resolves a route manifest into a route tree.

It reports configuration problems with the same codes the library
returns, prints the resolved tree, matches relative URIs against it
and serves a JSON debug view with Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", ".", "Project directory containing routekit.json")
	rootCmd.PersistentFlags().StringVarP(&flags.manifest, "manifest", "m", "", "Route manifest (default from routekit.json)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		checkCmd(&flags),
		treeCmd(&flags),
		matchCmd(&flags),
		serveCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// printBanner prints the routekit ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
