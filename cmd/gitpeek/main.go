// gitpeek renders enriched commit details in the terminal: commit metadata
// from git, plus best-effort issue autolinks and pull-request info from the
// repository's forge, each bounded by its own timeout so the view never
// blocks on a slow remote.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitpeek/gitpeek/internal/debug"
	"github.com/gitpeek/gitpeek/internal/telemetry"
)

// Version and Build are set at link time.
var (
	Version = "dev"
	Build   = "unknown"
)

var (
	verboseFlag bool
	quietFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "gitpeek",
	Short: "gitpeek - enriched commit details for your terminal",
	Long: `Peek at a commit the way an IDE hover would show it: author, date, and
message from git, plus issue autolinks and pull-request info fetched
best-effort from the repository's remote. Slow lookups are bounded, never
blocking; anything that misses the deadline can be picked up with --wait.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("gitpeek version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		if err := telemetry.Init(cmd.Context(), "gitpeek", Version); err != nil {
			debug.Logf("telemetry init: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress non-essential output")
	rootCmd.Flags().Bool("version", false, "print version and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
