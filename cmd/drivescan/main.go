package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/lewtec/drivescan/internal/composer"
	"github.com/lewtec/drivescan/internal/editor"
	"github.com/lewtec/drivescan/internal/logging"
	"github.com/lewtec/drivescan/scan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drivescan",
	Short: "Turn photos into PDF documents kept in a local drive",
	Long: strings.TrimSpace(`
Capture or pick images, rotate, filter and crop them, and assemble them into
multi-page PDF documents stored locally. Documents can be listed, searched,
exported and deleted from the command line or from a small web UI.
    `),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
		verbose, _ := cmd.Flags().GetBool("verbose")
		logging.SetupWriter(cmd.ErrOrStderr(), verbose)
		return nil
	},
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "drivescan.yaml", "Config file")
	rootCmd.PersistentFlags().StringP("database", "d", "", "Database file path, overrides the config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
}

// loadConfig reads the config named by the flags
func loadConfig(cmd *cobra.Command) (*scan.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := scan.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if databaseFile, _ := cmd.Flags().GetString("database"); databaseFile != "" {
		cfg.Database = databaseFile
	}
	return cfg, nil
}

// app bundles what the commands need from the config
type app struct {
	cfg    *scan.Config
	drive  *scan.Drive
	engine *editor.Engine
	closer io.Closer
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	format, err := cfg.PageFormat()
	if err != nil {
		return nil, err
	}
	repo, closer, err := scan.OpenRepository(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Str("page", format.Name).Msg("storage opened")
	return &app{
		cfg:    cfg,
		drive:  scan.NewDrive(repo, composer.NewPDFEncoder(cfg.Page.JPEGQuality), format),
		engine: editor.NewEngine(cfg.Editor.MaxPreview),
		closer: closer,
	}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}
