package main

import (
	"fmt"

	"github.com/lewtec/drivescan/internal/editor"
	"github.com/lewtec/drivescan/scan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// composeCmd represents the compose command
var composeCmd = &cobra.Command{
	Use:   "compose [flags] image...",
	Short: "Assemble images into a PDF document in the drive",
	Long: `Every image becomes one page, in the order given, scaled to fit the page and
centered. The edit flags apply to every image before composing.

Example:
  drivescan compose --name "Lease" page1.jpg page2.jpg
  drivescan compose --filter document --rotate 90 receipt.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readEditOptions(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := captureFiles(cmd, args)
		if err != nil {
			return err
		}
		if !opts.identity() {
			log.Debug().Int("images", list.Len()).Msg("applying edits")
			if err := scan.EditAll(list, a.engine, func(s *editor.Session) error {
				return opts.apply(s)
			}); err != nil {
				return err
			}
		}

		artifact, err := a.drive.CreateDocument(cmd.Context(), list, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", artifact.ID, artifact.Name)
		return nil
	},
}

func init() {
	composeCmd.Flags().StringP("name", "n", "", "Document name, defaults to Scan_<date>_<time>")
	addEditFlags(composeCmd)
	rootCmd.AddCommand(composeCmd)
}
