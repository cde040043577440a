package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/gridsheet/internal/config"
	"github.com/kozaktomas/gridsheet/internal/imagelist"
	"github.com/kozaktomas/gridsheet/internal/pdf"
	"github.com/kozaktomas/gridsheet/internal/settings"
)

var generateCmd = &cobra.Command{
	Use:   "generate [images-or-dirs...]",
	Short: "Render the image grid as a PDF",
	Long: `Render the given images (or the supported images inside the given
directories, in natural order) onto a fixed-size grid and write the
paginated result as a PDF document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "grid.pdf", "Output PDF file")
	addSettingsFlags(generateCmd)
}

// addSettingsFlags registers the per-field settings overrides shared by the
// rendering commands.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("cell-width", 0, "Cell width in mm (overrides settings)")
	cmd.Flags().Float64("cell-height", 0, "Cell height in mm (overrides settings)")
	cmd.Flags().String("page-size", "", "Page size: A4 or A3 (overrides settings)")
	cmd.Flags().Float64("margin", -1, "All four margins in mm (overrides settings)")
	cmd.Flags().Int("dpi", 0, "Output resolution (overrides settings)")
	cmd.Flags().Bool("grid", false, "Draw grid lines")
	cmd.Flags().Bool("no-grid", false, "Do not draw grid lines")
	cmd.Flags().String("grid-color", "", "Grid line color as #rrggbb (overrides settings)")
	cmd.Flags().Int("grid-width", 0, "Grid line width in points (overrides settings)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Grid: %d x %d cells per page, %d page(s) for %d image(s)\n",
		geo.Columns, geo.Rows, geo.PageCount, len(paths))

	ctx, stop := signalContext()
	defer stop()

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Rendering"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
	doc, report, err := pdf.Render(ctx, paths, set, func(p int) {
		_ = bar.Set(p)
	})
	fmt.Println()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Render cancelled, no output written")
			return nil
		}
		return err
	}

	output := mustGetString(cmd, "output")
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Wrote %s: %d page(s), %d image(s) placed", output, report.PageCount, report.Placed)
	if len(report.Skipped) > 0 {
		fmt.Printf(", %d skipped", len(report.Skipped))
	}
	fmt.Println()
	for _, s := range report.Skipped {
		fmt.Printf("  skipped %s: %s\n", s.Path, s.Reason)
	}
	return nil
}

// resolveSettings loads the settings file and applies per-field flag
// overrides. Flags beat the file, the file beats the defaults.
func resolveSettings(cmd *cobra.Command) (settings.Grid, error) {
	path := settingsPath
	if path == "" {
		path = config.Load().SettingsPath
	}
	set := settings.Load(path)

	if cmd.Flags().Changed("cell-width") {
		set.ColWidthMM = mustGetFloat64(cmd, "cell-width")
	}
	if cmd.Flags().Changed("cell-height") {
		set.RowHeightMM = mustGetFloat64(cmd, "cell-height")
	}
	if cmd.Flags().Changed("page-size") {
		set.PageSize = mustGetString(cmd, "page-size")
	}
	if cmd.Flags().Changed("margin") {
		m := mustGetFloat64(cmd, "margin")
		set.MarginTopMM, set.MarginBottomMM, set.MarginLeftMM, set.MarginRightMM = m, m, m, m
	}
	if cmd.Flags().Changed("dpi") {
		set.OutputDPI = mustGetInt(cmd, "dpi")
	}
	if mustGetBool(cmd, "grid") {
		set.GridLineVisible = true
	}
	if mustGetBool(cmd, "no-grid") {
		set.GridLineVisible = false
	}
	if cmd.Flags().Changed("grid-color") {
		c, err := settings.ParseHexColor(mustGetString(cmd, "grid-color"))
		if err != nil {
			return settings.Grid{}, err
		}
		set.GridColor = c
	}
	if cmd.Flags().Changed("grid-width") {
		set.GridWidth = mustGetInt(cmd, "grid-width")
	}

	if err := set.Validate(); err != nil {
		return settings.Grid{}, err
	}
	return set, nil
}

// collectImages expands the command line arguments into the ordered image
// path list.
func collectImages(args []string) ([]string, error) {
	list := imagelist.New()
	if _, err := list.Add(args...); err != nil {
		return nil, err
	}
	paths := list.Paths()
	if len(paths) == 0 {
		return nil, errors.New("no supported images found")
	}
	return paths, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
