package cmd

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"ignition/internal/app"
	"ignition/internal/formatting"
	"ignition/pkg/logging"
)

var (
	upConfigPath string
	upDebug      bool
	upSilent     bool
	upQuiet      bool
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the tiered initialization and report the result",
	Long: `up loads the manifest, validates the dependency declarations, and
initializes every declared system tier by tier. The command exits non-zero
if the declarations are rejected (exit code 2) or a required system fails
(exit code 3); optional-system failures are reported but tolerated.

When running under systemd, readiness is signalled once all tiers have
completed.`,
	RunE: runUp,
}

func init() {
	upCmd.Flags().StringVar(&upConfigPath, "config", "", "Path to the manifest file (default: ignition.yaml, built-in table if missing)")
	upCmd.Flags().BoolVar(&upDebug, "debug", false, "Enable debug logging")
	upCmd.Flags().BoolVar(&upSilent, "silent", false, "Suppress all log output")
	upCmd.Flags().BoolVar(&upQuiet, "quiet", false, "Disable the progress spinner")
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	application, err := app.NewApplication(app.NewConfig(upDebug, upSilent, upConfigPath))
	if err != nil {
		return err
	}

	var s *spinner.Spinner
	if !upQuiet && !upSilent {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Initializing systems..."
		s.Start()
	}

	runErr := application.Run(cmd.Context())

	if s != nil {
		s.Stop()
	}

	if !upSilent {
		formatting.RenderReport(application.Status(), os.Stdout)
	}

	if runErr != nil {
		return runErr
	}

	// Signal readiness when supervised by systemd; a no-op everywhere else.
	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("CLI", "Failed to notify systemd: %v", err)
	}
	return nil
}
