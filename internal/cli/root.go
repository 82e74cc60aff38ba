// Package cli wires the toast commands together with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/toast/internal/config"
	"github.com/idilsaglam/toast/internal/logging"
	"github.com/idilsaglam/toast/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// interactive marks commands that own the terminal; they never log to it.
const interactive = "interactive"

type usageError struct{ error }

// app holds root flag values and state shared by subcommands.
type app struct {
	verbosity  int
	configPath string
	addr       string
	theme      string
	color      string

	cfg        *config.Config
	logCleanup func()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "toast",
		Short: "Transient notifications for the terminal",
		Long: `toast keeps a stack of short-lived notifications. Each toast has a
variant (info, success, warning, error) and dismisses itself after its
duration unless it is sticky or pinned.

Run "toast demo" for the interactive stack, optionally with --listen so
"toast send" from another terminal can push to it.`,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logCleanup != nil {
				a.logCleanup()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	pf.StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/toast/config.toml)")
	pf.StringVar(&a.addr, "addr", "", "API address for client commands (overrides client.addr)")
	pf.StringVar(&a.theme, "theme", "", "color theme: classic, neon or mono (overrides ui.theme)")
	pf.StringVar(&a.color, "color", "auto", "colorize output: auto, always or never (NO_COLOR also disables)")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		a.demoCmd(),
		a.playCmd(),
		a.simulateCmd(),
		a.scriptCmd(),
		a.sendCmd(),
		a.listCmd(),
		a.dismissCmd(),
		a.clearCmd(),
		a.authCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch a.color {
	case "auto", "always", "never":
	default:
		return usageError{fmt.Errorf("invalid --color %q: want auto, always or never", a.color)}
	}
	cfg, err := config.Load(a.configPath, map[string]any{
		"client.addr": a.addr,
		"ui.theme":    a.theme,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)
	applyColor(a.color, ui.Current().Name == "mono")

	_, isInteractive := cmd.Annotations[interactive]
	cleanup, err := logging.Setup(logging.Options{
		Verbosity: a.verbosity,
		File:      cfg.Log.File,
		Console:   !isInteractive,
	})
	if err != nil {
		return err
	}
	a.logCleanup = cleanup
	log.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}

// applyColor settles terminal detection for headless output. A non-empty
// NO_COLOR only matters in auto mode.
func applyColor(mode string, mono bool) {
	switch mode {
	case "always":
		ui.SetColorForcing(true, mono)
	case "never":
		ui.SetColorForcing(false, true)
	default:
		ui.SetColorForcing(false, mono || os.Getenv("NO_COLOR") != "")
	}
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}
	return exitError
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
