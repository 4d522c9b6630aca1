package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oshokin/timebombs/internal/config"
	"github.com/oshokin/timebombs/internal/logger"
	"github.com/oshokin/timebombs/internal/service/checker"
	"github.com/oshokin/timebombs/internal/service/lister"
	"github.com/oshokin/timebombs/internal/timeparsing"
	"github.com/oshokin/timebombs/internal/version"
)

// ExitError is the status for configuration, resolution and usage errors.
// Counts are capped below it, see checker.MaxExitCode.
const ExitError = 255

// app holds the state of one CLI invocation.
type app struct {
	// stdout receives command output.
	stdout io.Writer
	// stderr receives logs.
	stderr io.Writer
	// clock supplies "now".
	clock func() time.Time
	// resolver turns references into registries; the default resolver when nil.
	resolver checker.Resolver
	// configPath is the --config flag value.
	configPath string
	// exitCode is set by the check command.
	exitCode int
}

// Execute runs the CLI with the process arguments and exits with its status.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// Run executes the CLI with args and returns the process exit status.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		clock:  time.Now,
	}

	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	// Output goes to the invocation's writers, not the process streams.
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Errors are silenced by cobra and logged once here.
	if err := root.ExecuteContext(ctx); err != nil {
		logger.ErrorKV(a.loggerContext(ctx, ""), "Command failed", "error", err)
		return ExitError
	}

	return a.exitCode
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "timebombs <registry>",
		Short: "Fail builds once timebombs arm or explode.",
		Long: `Evaluates every timebomb of a registry at one instant and exits with a status
derived from how many are disarmed, armed or exploded.

The registry is a name published by the host program or a manifest file
(.yaml, .yml or .toml). With the default threshold policy the exit status is
0 while every counted category stays within its maximum, and the total count
of counted timebombs otherwise. The total policy always reports the count.
Counts are capped at 254; status 255 is reserved for errors.

Settings may also come from a YAML config file (--config, default
` + config.DefaultConfigFilename + `) or TIMEBOMBS_* environment variables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runCheck,
	}

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to YAML settings file")

	root.AddCommand(
		&cobra.Command{
			Use:   "check <registry>",
			Short: "Count timebombs and exit with the resulting status.",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runCheck,
		},
		&cobra.Command{
			Use:   "list <registry>",
			Short: "Print every timebomb with its state.",
			Args:  cobra.ExactArgs(1),
			RunE:  a.runList,
		},
	)

	version.AttachCobraVersionCommand(root)

	return root
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	ctx, opts, err := a.options(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := checker.Run(ctx, opts)
	if err != nil {
		return err
	}

	// Counts leave through the exit status, not through an error.
	a.exitCode = result.ExitCode

	return nil
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	ctx, opts, err := a.options(cmd, args[0])
	if err != nil {
		return err
	}

	return lister.Run(ctx, opts, cmd.OutOrStdout())
}

// options loads settings and turns them into checker options with a scoped logger.
func (a *app) options(cmd *cobra.Command, reference string) (context.Context, *checker.Options, error) {
	// Flags win over environment, environment over the config file.
	cfg, err := config.Load(cmd.Flags(), a.configPath)
	if err != nil {
		return nil, nil, err
	}

	// Scope the logger to the configured level for the rest of the command.
	ctx := a.loggerContext(cmd.Context(), cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	policy, err := checker.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, nil, err
	}

	opts := &checker.Options{
		Reference:  reference,
		Resolver:   a.resolver,
		Lookahead:  cfg.Lookahead,
		Location:   loc,
		Skips:      cfg.Skips(),
		Thresholds: cfg.Thresholds(),
		Policy:     policy,
		Clock:      a.clock,
	}

	// A relative --at such as "tomorrow" is read from now in the target timezone.
	if cfg.At != "" {
		base := a.clock()
		if loc != nil {
			base = base.In(loc)
		}

		opts.At, err = timeparsing.ParseMoment(cfg.At, base)
		if err != nil {
			return nil, nil, err
		}
	}

	return ctx, opts, nil
}

// loggerContext attaches a logger writing to stderr at the given level.
func (a *app) loggerContext(ctx context.Context, level string) context.Context {
	lvl, ok := logger.ParseLogLevel(level)
	if !ok {
		lvl = logger.Level()
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return logger.ToContext(ctx, logger.New(a.stderr, zap.NewAtomicLevelAt(lvl)))
}
