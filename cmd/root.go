package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hyperport/hyperport/internal/rules"
	"github.com/hyperport/hyperport/pkg/buildinfo"
	"github.com/hyperport/hyperport/pkg/exitcode"
	"github.com/hyperport/hyperport/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hyperport",
		Short: "Property transformation engine for HyperOS ROM porting",
		Long: `Hyperport rewrites the property files of an extracted firmware package
during a ROM port: build metadata, screen density, device-specific
fixes, build fingerprints, and platform scheduler tuning.

Examples:
   hyperport version                 # Show version
   hyperport props --root tmp/port_images --base-code mondrian \
       --rom-version OS2.0.1.0 --android-version 15`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd.Flags())
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("hyperport {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(versionCmd)
	cmd.AddCommand(propsCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and maps failures to exit codes.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor distinguishes configuration errors and filesystem errors
// from everything else.
func exitCodeFor(err error) int {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, rules.ErrConfig):
		return exitcode.ConfigError
	case errors.As(err, &pathErr):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(flags *pflag.FlagSet) {
	logLevelStr, _ := flags.GetString("log-level")
	jsonLogs, _ := flags.GetBool("json")
	noColor, _ := flags.GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "hyperport",
	}

	if err := logger.Initialize(config); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(exitcode.ConfigError)
	}
}
