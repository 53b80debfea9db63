package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kilometers.ai/plistmerge/internal/application/commands"
	"kilometers.ai/plistmerge/internal/application/services"
	"kilometers.ai/plistmerge/internal/core/domain"
	"kilometers.ai/plistmerge/internal/infrastructure/jsonfile"
	"kilometers.ai/plistmerge/internal/infrastructure/plistfile"
	"kilometers.ai/plistmerge/internal/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// SuccessMessage is printed to stdout after the plist has been rewritten
const SuccessMessage = "Info.plist updated successfully."

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Options holds the values of the command line flags
type Options struct {
	Format string
	DryRun bool
	Debug  bool
}

// usageError marks flag errors so they share the usage exit code
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// NewRootCommand creates the plistmerge command. Results go to stdout,
// diagnostics to stderr.
func NewRootCommand(stdout, stderr io.Writer, logger *logrus.Logger) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "plistmerge [flags] <json_file_path> <plist_file_path>",
		Short: "Merge JSON keys into a property list file",
		Long: `plistmerge overlays the top-level keys of a JSON object onto the root
dictionary of an existing property list and rewrites the plist in place.

Keys present in both files take the JSON value; every other plist entry is
left untouched. The merge is shallow. Binary plists stay binary and XML
plists stay XML unless --format says otherwise.

Example:
  plistmerge build-info.json MyApp/Info.plist
  plistmerge --dry-run build-info.json MyApp/Info.plist`,
		Version:       Version,
		Args:          requirePaths(logger),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetDebug(logger, opts.Debug)
			if opts.Format != "" {
				if _, err := domain.ParseFormat(opts.Format); err != nil {
					return &usageError{err: err}
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.Context(), stdout, logger, opts, args[0], args[1])
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.Flags().StringVar(&opts.Format, "format", "", "Output encoding: xml, binary, openstep or gnustep (default is the encoding read)")
	rootCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show what would change without writing the plist")
	rootCmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging and stack traces")

	return rootCmd
}

// requirePaths accepts two or more positional arguments; extras are ignored
func requirePaths(logger logrus.FieldLogger) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.WithStack(&domain.ArgumentError{Got: len(args), Want: 2})
		}
		if extra := len(args) - 2; extra > 0 {
			logger.Warnf("ignoring %d extra argument(s): %v", extra, args[2:])
		}
		return nil
	}
}

// runMerge handles one merge and prints its outcome
func runMerge(ctx context.Context, stdout io.Writer, logger *logrus.Logger, opts *Options, jsonPath, plistPath string) error {
	cmd := commands.NewMergePlistCommand(jsonPath, plistPath)
	cmd.DryRun = opts.DryRun
	if opts.Format != "" {
		format, err := domain.ParseFormat(opts.Format)
		if err != nil {
			return &usageError{err: err}
		}
		cmd.Format = format
	}

	service := services.NewMergeService(jsonfile.NewSource(), plistfile.NewStore(), logger)
	result, err := service.Apply(ctx, cmd)
	if err != nil {
		return err
	}

	if opts.DryRun {
		printChanges(stdout, result)
		return nil
	}
	fmt.Fprintln(stdout, SuccessMessage)
	return nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var argErr *domain.ArgumentError
	var flagErr *usageError
	if errors.As(err, &argErr) || errors.As(err, &flagErr) {
		return ExitUsage
	}
	return ExitFailure
}

// Run executes the command line and returns the exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger := logging.NewLogger(stderr, false)
	rootCmd := NewRootCommand(stdout, stderr, logger)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// Argument validation fails before PreRunE, so --debug may not be applied yet
		if debugOn, _ := rootCmd.Flags().GetBool("debug"); debugOn {
			logging.SetDebug(logger, true)
		}
		printError(stderr, err, logger.IsLevelEnabled(logrus.DebugLevel))
		if ExitCode(err) == ExitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		}
	}
	return ExitCode(err)
}
