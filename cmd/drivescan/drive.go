package main

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents in the drive, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("search")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		docs, err := a.drive.Search(cmd.Context(), query)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range docs {
			fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", d.ID, d.CreatedAt.Format("2006-01-02 15:04:05"), d.Name, d.Size)
		}
		return nil
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete id...",
	Short: "Delete documents from the drive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, id := range args {
			if err := a.drive.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("while deleting %s: %w", id, err)
			}
		}
		return nil
	},
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export id...",
	Short: "Write documents as <name>.pdf files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		fs := osfs.New(dir)
		for _, id := range args {
			name, err := a.drive.Export(cmd.Context(), id, fs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
		}
		return nil
	},
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every document in the drive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to clear the drive without --yes")
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
		if err := a.drive.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d document(s)\n", count)
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "Only show documents whose name contains this, ignoring case")
	exportCmd.Flags().String("dir", ".", "Directory to write the files to")
	clearCmd.Flags().Bool("yes", false, "Confirm deleting everything")
	rootCmd.AddCommand(listCmd, deleteCmd, exportCmd, clearCmd)
}
