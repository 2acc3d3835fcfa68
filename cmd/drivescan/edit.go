package main

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lewtec/drivescan/internal/editor"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [flags] image output",
	Short: "Edit a single image without storing it",
	Long: `Applies rotation, filter, brightness, contrast and crop to one image and
writes the result at native resolution. The crop is given on the preview
surface, whose size is printed; --preview writes that surface too.

Example:
  drivescan edit --rotate 90 --crop 20,20,300,400 photo.jpg page.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readEditOptions(cmd)
		if err != nil {
			return err
		}
		previewFile, _ := cmd.Flags().GetString("preview")
		maxPreview, _ := cmd.Flags().GetInt("max-preview")

		list, err := captureFiles(cmd, args[:1])
		if err != nil {
			return err
		}
		session, err := editor.Begin(list, 0, editor.NewEngine(maxPreview))
		if err != nil {
			return err
		}
		if err := opts.apply(session); err != nil {
			session.Cancel()
			return err
		}
		state := session.State()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "surface\t%dx%d\n", state.Surface.W, state.Surface.H)
		if crop, ok := state.Crop(); ok && state.CropActive {
			fmt.Fprintf(out, "crop\t%s\n", crop)
		}

		if previewFile != "" {
			preview, err := session.Preview()
			if err != nil {
				session.Cancel()
				return err
			}
			if err := saveImage(previewFile, preview); err != nil {
				session.Cancel()
				return err
			}
		}

		record, err := session.Apply()
		if err != nil {
			session.Cancel()
			return err
		}
		if err := saveImage(args[1], record.Raster); err != nil {
			return err
		}
		w, h := record.Size()
		fmt.Fprintf(out, "output\t%dx%d\t%s\n", w, h, args[1])
		return nil
	},
}

func saveImage(filename string, img image.Image) error {
	if err := imaging.Save(img, filename, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("while writing '%s': %w", filename, err)
	}
	return nil
}

func init() {
	editCmd.Flags().String("preview", "", "Also write the preview surface to this file")
	editCmd.Flags().Int("max-preview", editor.DefaultMaxPreview, "Longest side of the preview surface")
	addEditFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}
