package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/gridsheet/internal/preview"
	"github.com/kozaktomas/gridsheet/internal/thumbs"
)

var previewCmd = &cobra.Command{
	Use:   "preview [images-or-dirs...]",
	Short: "Rasterize the first page's preview to a PNG",
	Long: `Build the same scaled preview the web panel shows for the first
page of the layout and write it to a PNG file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("output", "o", "preview.png", "Output PNG file")
	previewCmd.Flags().Int("width", 800, "Surface width in pixels")
	previewCmd.Flags().Int("height", 600, "Surface height in pixels")
	addSettingsFlags(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	set, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	paths, err := collectImages(args)
	if err != nil {
		return err
	}
	geo, err := set.Geometry(len(paths))
	if err != nil {
		return err
	}
	if len(paths) > geo.CellsPerPage {
		fmt.Printf("Previewing the first page only: %d of %d image(s)\n", geo.CellsPerPage, len(paths))
		paths = paths[:geo.CellsPerPage]
	}

	ctx, stop := signalContext()
	defer stop()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Loading thumbnails"),
		progressbar.OptionFullWidth(),
	)
	tn, err := thumbs.Load(ctx, paths, func(p int) {
		_ = bar.Set(p)
	})
	fmt.Println()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Preview cancelled, no output written")
			return nil
		}
		return err
	}

	img := preview.Rasterize(preview.Synthesize(tn, geo, set,
		mustGetInt(cmd, "width"), mustGetInt(cmd, "height")))

	output := mustGetString(cmd, "output")
	if err := imaging.Save(img, output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Printf("Wrote %s\n", output)
	return nil
}
