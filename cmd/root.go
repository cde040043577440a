package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "gridsheet",
	Short: "Lay raster images out on a fixed-size grid and render them as a PDF",
	Long: `Gridsheet arranges a list of raster images into a fixed-size grid
across one or more pages and renders the result as a print-ready PDF.
It also serves a web panel with a live preview of the same layout.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to the grid settings file (defaults to GRIDSHEET_SETTINGS)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
