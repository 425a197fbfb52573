// Package cli builds the mtcollect command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/mtcollect/internal/version"
	"github.com/arthur-debert/mtcollect/pkg/config"
	"github.com/arthur-debert/mtcollect/pkg/errors"
	"github.com/arthur-debert/mtcollect/pkg/logging"
	"github.com/arthur-debert/mtcollect/pkg/output"
)

// app holds the global flags and the state prepared before a command runs.
type app struct {
	stdout io.Writer
	stderr io.Writer

	verbosity    int
	formatFlag   string
	settingsPath string

	settings *config.Settings
	format   output.Format
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// NewRootCmd creates the root command writing to the process streams.
func NewRootCmd() *cobra.Command {
	return newApp(os.Stdout, os.Stderr).rootCmd()
}

// Run executes the command line args and returns the process exit code.
// Errors are rendered before returning.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && !isRendered(err) {
		a.renderError(err)
	}
	return ExitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:               "mtcollect",
		Short:             MsgRootShort,
		Long:              MsgRootLong,
		Version:           version.Version,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetUsageTemplate(usageTemplate)

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.formatFlag, "format", "", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&a.settingsPath, "settings", "", MsgFlagSettings)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(a.newCreateConfigCmd())
	rootCmd.AddCommand(a.newAddPackageCmd())
	rootCmd.AddCommand(a.newRemovePackageCmd())
	rootCmd.AddCommand(a.newUpdateCmd())
	rootCmd.AddCommand(a.newSyncCmd())
	rootCmd.AddCommand(a.newSyncDevCmd())
	rootCmd.AddCommand(a.newSettingsCmd())
	rootCmd.AddCommand(a.newExplainCmd())
	rootCmd.AddCommand(a.newVersionCmd())
	rootCmd.AddCommand(a.newCompletionCmd())
	rootCmd.AddCommand(a.newManCmd())

	return rootCmd
}

// setup configures logging, loads the settings and resolves the output
// format. The --format flag wins over output.format.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	logging.SetupLogger(a.verbosity)
	log.Debug().Str("command", cmd.Name()).Msg("Command started")

	s, err := config.Load(a.settingsPath)
	if err != nil {
		return err
	}
	if a.formatFlag != "" {
		if _, err := output.ParseFormat(a.formatFlag); err != nil {
			return errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
		}
		if s, err = s.Override(map[string]interface{}{"output.format": a.formatFlag}); err != nil {
			return err
		}
	}

	format, err := output.ParseFormat(s.Output.Format)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid output.format")
	}

	a.settings = s
	a.format = format
	return nil
}

func (a *app) renderer() (output.Renderer, error) {
	return output.NewRenderer(a.format, a.stdout)
}

// renderError reports err on stderr, or on stdout for structured formats
// so the output stays a single parseable document.
func (a *app) renderError(err error) {
	format := a.format
	if format == output.FormatAuto && a.formatFlag != "" {
		if f, perr := output.ParseFormat(a.formatFlag); perr == nil {
			format = f
		}
	}

	w := a.stderr
	if f := output.Resolve(format, w); f == output.FormatJSON || f == output.FormatYAML {
		w = a.stdout
	}

	r, rerr := output.NewRenderer(format, w)
	if rerr == nil {
		rerr = r.RenderError(err)
	}
	if rerr != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
}
