package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/toast/internal/api"
	"github.com/idilsaglam/toast/internal/client"
	"github.com/idilsaglam/toast/internal/model"
	"github.com/idilsaglam/toast/internal/ui"
)

// client returns an API client for client.addr with the stored token.
func (a *app) client() (*client.Client, error) {
	var token string
	ti, err := client.GetToken()
	if err != nil {
		return nil, err
	}
	if ti != nil {
		token = ti.Token
	}
	return client.New(a.cfg.Client.Addr, token), nil
}

// hint adds a next step to errors a user can fix.
func hint(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w (run `toast auth login` or set %s)", err, client.TokenEnv)
	}
	return err
}

func (a *app) sendCmd() *cobra.Command {
	var (
		variant  string
		title    string
		duration time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Push a toast to a running instance",
		Example: `  toast send "Build finished"
  toast send --variant error --title Deploy "rollout failed"
  toast send --duration 0 "stays until dismissed"`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := model.ParseVariant(variant)
			if err != nil {
				return usageError{err}
			}
			if !cmd.Flags().Changed("duration") {
				duration = a.cfg.Timing.For(v)
			}
			if duration < 0 {
				return usageError{errors.New("duration must not be negative")}
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			id, err := c.Create(cmd.Context(), api.CreateRequest{
				Variant:  string(v),
				Title:    title,
				Content:  strings.Join(args, " "),
				Duration: duration.String(),
			})
			if err != nil {
				return hint(err)
			}
			ui.OK(cmd.OutOrStdout(), "sent #"+id.String())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&variant, "variant", "info", "info, success, warning or error")
	f.StringVar(&title, "title", "", "optional title")
	f.DurationVar(&duration, "duration", 0, "time before auto-dismiss; 0 keeps it (default from timing.<variant>)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active toasts in a running instance",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			toasts, err := c.List(cmd.Context())
			if err != nil {
				return hint(err)
			}
			ui.Toasts(cmd.OutOrStdout(), toasts, time.Now())
			return nil
		},
	}
}

func (a *app) dismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dismiss <id>",
		Aliases: []string{"rm"},
		Short:   "Dismiss a toast by id",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParseID(args[0])
			if err != nil {
				return usageError{err}
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Dismiss(cmd.Context(), id); err != nil {
				return hint(err)
			}
			ui.OK(cmd.OutOrStdout(), "dismissed #"+id.String())
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Dismiss every toast",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			n, err := c.Clear(cmd.Context())
			if err != nil {
				return hint(err)
			}
			noun := "toasts"
			if n == 1 {
				noun = "toast"
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("cleared %d %s", n, noun))
			return nil
		},
	}
}
