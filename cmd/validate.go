package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ignition/internal/app"
	"ignition/internal/config"
	"ignition/internal/dependency"
	"ignition/pkg/logging"
)

var validateConfigPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the manifest's dependency declarations without starting anything",
	Long: `validate loads the manifest and runs the same pre-flight checks up
performs: unique names, resolvable references, dependencies in strictly
lower tiers, and no cycles. Nothing is constructed.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "", "Path to the manifest file (default: ignition.yaml, built-in table if missing)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logging.Init(logging.LevelWarn, io.Discard)

	path := validateConfigPath
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
	if err := dependency.Validate(table); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d systems across %d tiers\n", table.Len(), len(table.Tiers()))
	return nil
}
