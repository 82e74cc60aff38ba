package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/toast/internal/clock"
	"github.com/idilsaglam/toast/internal/logging"
	"github.com/idilsaglam/toast/internal/metrics"
	"github.com/idilsaglam/toast/internal/playback"
	"github.com/idilsaglam/toast/internal/server"
	"github.com/idilsaglam/toast/internal/store/scriptstore"
	"github.com/idilsaglam/toast/internal/toast"
	"github.com/idilsaglam/toast/internal/tui"
	"github.com/idilsaglam/toast/internal/ui"
)

func (a *app) demoCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:         "demo",
		Short:       "Open the interactive toast stack",
		Annotations: map[string]string{interactive: ""},
		Args:        exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.interactive(cmd.Context(), a.listenAddr(cmd, listen), nil)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "also serve the HTTP API on this address (overrides server.listen)")
	return cmd
}

func (a *app) playCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:         "play <script>",
		Short:       "Play a script in the interactive stack",
		Annotations: map[string]string{interactive: ""},
		Args:        exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scriptstore.Load(args[0])
			if err != nil {
				return err
			}
			return a.interactive(cmd.Context(), a.listenAddr(cmd, listen), &s)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "also serve the HTTP API on this address (overrides server.listen)")
	return cmd
}

func (a *app) simulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <script>",
		Short: "Run a script on a virtual clock and print its timeline",
		Long: `simulate plays a script without waiting: time is virtual, so the
output shows exactly when each toast would appear and disappear.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scriptstore.Load(args[0])
			if err != nil {
				return err
			}
			res, err := playback.Simulate(s, a.cfg.Timing.For)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			ui.Timeline(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func (a *app) scriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Work with playback scripts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write a sample script (.json, .yaml or .toml)",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scriptstore.Save(args[0], scriptstore.Sample()); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "wrote "+args[0])
			return nil
		},
	})
	return cmd
}

func (a *app) listenAddr(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("listen") {
		return flag
	}
	return a.cfg.Server.Listen
}

// interactive runs the TUI on a loop clock, with the API and a script player
// attached to the same manager when requested.
func (a *app) interactive(ctx context.Context, listen string, script *scriptstore.Script) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lc := tui.NewLoopClock(clock.Real())
	mgr := toast.NewManager(
		toast.WithClock(lc),
		toast.WithLogger(logging.GetLogger("manager")),
	)
	col := metrics.New()
	defer mgr.Subscribe(col.Observe)()

	opts := tui.Options{
		Theme:    a.cfg.UI.Theme,
		Visible:  a.cfg.UI.Visible,
		Defaults: a.cfg.Timing.For,
	}

	var errc chan error
	if listen != "" {
		ln, err := net.Listen("tcp", listen)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		srv := server.New(mgr,
			server.WithToken(a.cfg.Server.Token),
			server.WithLogger(logging.GetLogger("server")),
			server.WithMetrics(col),
		)
		defer srv.Close()
		errc = make(chan error, 1)
		go func() { errc <- srv.ServeListener(ctx, ln) }()
		opts.Status = "API on http://" + ln.Addr().String()
	}

	var onStart func() error
	if script != nil {
		p := &playback.Player{
			Clock:    lc,
			Manager:  mgr,
			Defaults: a.cfg.Timing.For,
			Log:      logging.GetLogger("playback"),
		}
		defer p.Stop()
		onStart = func() error {
			_, err := p.Start(*script)
			return err
		}
	}

	err := tui.Run(ctx, mgr, lc, opts, onStart)
	cancel()
	if errc != nil {
		if serr := <-errc; serr != nil {
			log.Error().Err(serr).Msg("api server stopped")
			if err == nil {
				err = serr
			}
		}
	}
	return err
}
