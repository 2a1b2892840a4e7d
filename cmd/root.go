package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/var-manager/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "var-manager",
	Short: "Deduplicating storage for variable snapshots",
	Long: `A storage service for arbitrarily nested variable snapshots.

var-manager persists JSON-like documents while storing each repeated
sub-value and tree shape exactly once: leaf values are content-addressed
into a reference-counted pool, tree shapes are content-addressed into a
structure table, and snapshots only bind an identifier to a structure.

Quick Start:
  var-manager serve                      # Start the HTTP API
  var-manager list                       # List stored global snapshots
  var-manager cleanup --active a.jsonl   # Sweep orphaned snapshots
  var-manager healthcheck                # Verify database access`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveDatabasePath returns the --db flag value or the configured default
func resolveDatabasePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return internal.DefaultDatabasePath()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Custom database file path")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
