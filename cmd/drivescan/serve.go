package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lewtec/drivescan/scan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Browse, upload and download documents from a web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.HTTP.Listen
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		app := &scan.DriveApp{Drive: a.drive, Engine: a.engine}
		srv := &http.Server{
			Addr:              addr,
			Handler:           app.GetHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx := cmd.Context()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "Address to bind the webserver, overrides the config")
	rootCmd.AddCommand(serveCmd)
}
