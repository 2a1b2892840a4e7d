package cmd

import (
	"fmt"
	"net/http"

	"github.com/iksnae/var-manager/internal"
	"github.com/iksnae/var-manager/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snapshot HTTP API",
	Long: `Start the HTTP API backing the variable snapshot store.

The server reads its settings from <dataDir>/config.yaml when present;
the --addr and --db flags override the configured values. The data
directory defaults to ~/.var-manager and can be moved with the
VAR_MANAGER_DATA_DIR environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if serveAddr != "" {
			cfg.ListenAddr = serveAddr
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if cfg.Verbose {
			internal.SetVerbose(true)
		}

		db, err := internal.OpenDatabase(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		svc := server.NewService(internal.NewStore(db))

		internal.LogInfo("listening on %s (database: %s)", cfg.ListenAddr, cfg.DatabasePath)
		if err := http.ListenAndServe(cfg.ListenAddr, svc.Router()); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:6580)")
}
