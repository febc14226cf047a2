package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ignition/internal/bootstrap"
	"ignition/internal/dependency"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates the dependency declarations were rejected
	// before any system was constructed (cycle, tier order, dangling
	// reference, missing action).
	ExitCodeConfig = 2
	// ExitCodeBootstrap indicates a required system failed during
	// initialization.
	ExitCodeBootstrap = 3
)

// rootCmd represents the base command for the ignition application.
var rootCmd = &cobra.Command{
	Use:   "ignition",
	Short: "Bring up the engine's systems in dependency tiers",
	Long: `ignition initializes a set of interdependent systems in dependency
tiers: systems in a tier start concurrently, tiers run strictly in order,
and a system never starts before everything it depends on has succeeded.
Cyclic or tier-inconsistent declarations are rejected before any system is
constructed.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that the application handles itself.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "ignition version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error kinds to semantic exit codes for scripting.
func getExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case dependency.IsCycle(err), dependency.IsTierOrder(err), dependency.IsUnknownDependency(err):
		return ExitCodeConfig
	case bootstrap.IsStageFailure(err):
		return ExitCodeBootstrap
	default:
		return ExitCodeError
	}
}
