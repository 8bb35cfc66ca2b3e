package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string
	MaxDepth   int
	Metrics    bool
	Tracing    bool

	// resolved before any subcommand runs
	Config Config
}

// NewRootCommand creates the root command of the observer demo.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "observer-demo",
		Short: "Watch observable collections re-run effects",
		Long: `Runs small scripted scenarios against observable sets, maps and
sequences, and prints what every effect saw after each mutation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log effect runs and triggers to stderr")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().IntVar(&opts.MaxDepth, "max-depth", defaults.MaxDepth, "maximum nested effect runs, 0 disables the limit")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics after the scenario")
	cmd.PersistentFlags().BoolVar(&opts.Tracing, "tracing", false, "trace effect runs with the global OpenTelemetry provider")

	for _, s := range scenarios {
		cmd.AddCommand(newScenarioCommand(opts, s))
	}

	return cmd
}

// resolve merges the config file and the flags explicitly set on the command line.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	config := DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		config = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		config.MaxDepth = opts.MaxDepth
	}
	if flags.Changed("metrics") {
		config.Metrics = opts.Metrics
	}
	if flags.Changed("tracing") {
		config.Tracing = opts.Tracing
	}
	if opts.Verbose {
		config.LogLevel = "debug"
	}

	if err := config.Validate(); err != nil {
		return err
	}

	opts.Config = config
	return nil
}
