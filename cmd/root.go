package cmd

import (
	"github.com/spf13/cobra"

	"github.com/diario-app/diario/internal/config"
	"github.com/diario-app/diario/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "diario",
	Short: "Personal school dashboard backend",
	Long:  "Diario — local backend for a student dashboard: syncs ClasseViva agenda and grade exports, detects upcoming tests and timetable changes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DIARIO_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides DIARIO_CONFIG env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(workloadCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then DIARIO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDBPath()
}

// loadConfig reads the config from --config, DIARIO_CONFIG or the
// default XDG location, writing defaults on first run.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// openStore opens the SQLite store at the resolved path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
