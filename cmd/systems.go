package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"ignition/internal/app"
	"ignition/internal/config"
	"ignition/internal/dependency"
	"ignition/internal/formatting"
	"ignition/pkg/logging"
)

var systemsConfigPath string

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "Print the declared system table",
	RunE:  runSystems,
}

func init() {
	systemsCmd.Flags().StringVar(&systemsConfigPath, "config", "", "Path to the manifest file (default: ignition.yaml, built-in table if missing)")
	rootCmd.AddCommand(systemsCmd)
}

func runSystems(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, io.Discard)

	path := systemsConfigPath
	if path == "" {
		path = app.DefaultManifestPath
	}

	manifest, err := config.Load(path)
	if err != nil {
		return err
	}
	table, err := dependency.NewTable(manifest.Descriptors()...)
	if err != nil {
		return err
	}

	formatting.RenderSystems(table, cmd.OutOrStdout())
	return nil
}
