package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/keyprobe/pkg/constants"
)

// Execute runs the keyprobe CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command. The root command itself
// runs the probe; subcommands are informational.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "keyprobe",
		Short:   "Check that an OpenAI API key works",
		Version: a.version,
		Long: `keyprobe loads an OpenAI API key from a dotenv file (or the environment),
sends a single chat completion request with it, and prints the reply or
the error returned by the API.

Exactly one request is made. A failed probe is reported but still exits 0
unless --strict is given.

Examples:
  keyprobe                          # Read OPENAI_API_KEY from .env.openai
  keyprobe --env-file .env          # Use a different dotenv file
  keyprobe --format json            # Machine-readable report
  keyprobe --strict --timeout 15s   # Exit 1 on failure, give up after 15s`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runProbe,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.keyprobe.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored log output")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	probeFlags := rootCmd.Flags()
	probeFlags.String("env-file", constants.DefaultEnvFile, "dotenv file holding the API key")
	probeFlags.String("key-name", constants.DefaultKeyName, "variable name of the API key")
	probeFlags.String("key-pattern", "", "regular expression the key is expected to match (warning only)")
	probeFlags.String("model", constants.DefaultModel, "model used for the probe")
	probeFlags.String("system-prompt", constants.DefaultSystemPrompt, "system message sent with the probe")
	probeFlags.String("user-prompt", constants.DefaultUserPrompt, "user message sent with the probe")
	probeFlags.Int64("max-tokens", constants.DefaultMaxTokens, "maximum tokens in the reply")
	probeFlags.String("base-url", "", "override the API base URL (OpenAI-compatible endpoints)")
	probeFlags.Duration("timeout", constants.DefaultProbeTimeout, "give up after this long (0 waits for the transport)")
	probeFlags.StringP("format", "o", "text", "output format: text, table, json, yaml")
	probeFlags.Bool("strict", false, "exit with status 1 when the probe fails")

	rootCmd.SetOut(a.stdout)
	rootCmd.SetVersionTemplate("keyprobe {{.Version}}\n")

	rootCmd.AddCommand(a.NewVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs. It reloads configuration
// so that explicitly set flags take precedence over every other source.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	config, err := LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.config = config

	if !a.customLogger {
		if err := a.closeLog(); err != nil {
			return err
		}
		logger, closer := NewLogger(a.config)
		a.logger = &logger
		a.logCloser = closer
	}

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
