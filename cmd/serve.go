package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/gridsheet/internal/config"
	"github.com/kozaktomas/gridsheet/internal/settings"
	"github.com/kozaktomas/gridsheet/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web panel",
	Long: `Start the gridsheet web panel. The panel manages the image list and
grid settings, shows a live preview of the first page, and runs
document renders as cancellable background jobs.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to GRIDSHEET_WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (defaults to GRIDSHEET_WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if settingsPath != "" {
		cfg.SettingsPath = settingsPath
	}
	if cmd.Flags().Changed("port") {
		cfg.Web.Port = mustGetInt(cmd, "port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Web.Host = mustGetString(cmd, "host")
	}

	store := settings.NewStore(cfg.SettingsPath)
	server := web.NewServer(cfg, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Gridsheet on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
