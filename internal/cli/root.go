package cli

import (
	"fmt"
	"time"

	"github.com/charliek/runcheck/internal/config"
	"github.com/spf13/cobra"
)

// Version is set during build
var Version = "dev"

// rootOptions holds the parsed command line flags
type rootOptions struct {
	run          string
	check        string
	shell        string
	configPath   string
	envFile      string
	drainTimeout time.Duration
	noColor      bool
	verbose      bool
}

func (o *rootOptions) overrides() config.Overrides {
	return config.Overrides{
		Run:          o.run,
		Check:        o.check,
		Shell:        o.shell,
		EnvFile:      o.envFile,
		DrainTimeout: o.drainTimeout,
		NoColor:      o.noColor,
	}
}

// newRootCmd builds the command tree for one invocation
func (a *App) newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "runcheck --run COMMAND --check COMMAND",
		Short: "Run a command alongside a check that can tear it down",
		Long: `runcheck runs two shell commands side by side and relays their output
with [RUN] and [CHECK] prefixes.

  - If check fails, run is killed and runcheck exits with check's code
  - If check succeeds, run keeps going
  - If run exits for any reason, check is killed and runcheck exits with run's code

Commands that end by signal report 128 + the signal number.`,
		Example: `  runcheck --run "npm run dev" --check "npx tsc --noEmit"
  runcheck -c runcheck.yaml --check "go vet ./..."`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSupervisor(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.run, "run", "", "Command to run (the long-running process)")
	flags.StringVar(&opts.check, "check", "", "Command to check (tears down run when it fails)")
	flags.StringVar(&opts.shell, "shell", "", "Shell used to interpret both commands (default $SHELL or $COMSPEC)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default: runcheck.yaml if present)")
	flags.StringVar(&opts.envFile, "env-file", "", "Dotenv file with extra environment for both commands")
	flags.DurationVar(&opts.drainTimeout, "drain-timeout", 0, "How long teardown waits for commands and their output (default 5s)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored prefixes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.SetVersionTemplate("runcheck version {{.Version}}\n")
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}

// newVersionCmd represents the version command
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "runcheck version %s\n", Version)
		},
	}
}
