package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lewtec/drivescan/scan"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file and an empty drive",
	Long: `Initialize drivescan in the current directory by creating:
- A configuration file with the defaults (drivescan.yaml)
- The storage for the drive (a SQLite database unless configured otherwise)

Example:
  drivescan init
  drivescan init --config scans.yaml --database scans.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		out := cmd.OutOrStdout()

		if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(out, "Creating configuration file: %s\n", configFile)
			cfg := scan.DefaultConfig()
			if databaseFile, _ := cmd.Flags().GetString("database"); databaseFile != "" {
				cfg.Database = databaseFile
			}
			if err := createConfig(configFile, cfg); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
		} else {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configFile)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.drive.Count(cmd.Context())
		if err != nil {
			return err
		}
		if a.cfg.Storage.Backend == scan.BackendSQLite {
			fmt.Fprintf(out, "Database ready: %s\n", a.cfg.Database)
		} else {
			fmt.Fprintf(out, "Redis ready: %s\n", a.cfg.Storage.Redis.Addr)
		}
		fmt.Fprintf(out, "Documents in drive: %d\n", count)
		return nil
	},
}

func createConfig(filename string, cfg *scan.Config) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := scan.WriteConfig(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	rootCmd.AddCommand(initCmd)
}
