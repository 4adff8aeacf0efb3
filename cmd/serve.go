package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/framework/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnostics and metrics endpoints",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfgPath, envFiles...)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
