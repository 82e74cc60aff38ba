package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/toast/internal/client"
	"github.com/idilsaglam/toast/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token used by client commands",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login [token]",
			Short: "Store a token (read from stdin when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var token string
				if len(args) == 1 {
					token = args[0]
				} else {
					fmt.Fprint(cmd.ErrOrStderr(), "Paste your token: ")
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("read token: %w", err)
					}
					token = line
				}
				if err := client.SetToken(token); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the stored token",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				ti, _ := client.GetToken()
				if ti != nil && ti.Source == "env" {
					ui.OK(cmd.OutOrStdout(), "token is provided by "+client.TokenEnv+" (nothing to delete)")
					return nil
				}
				if err := client.DeleteToken(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				ti, err := client.GetToken()
				if err != nil {
					return err
				}
				if ti == nil {
					fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
					fmt.Fprintln(out, "Run: toast auth login")
					return nil
				}
				fmt.Fprintf(out, "source: %s\n", ti.Source)
				if ti.Source == "file" {
					fmt.Fprintf(out, "file: %s\n", client.CredentialsPath())
					if !ti.CreatedAt.IsZero() {
						fmt.Fprintf(out, "saved: %s\n", ti.CreatedAt.UTC().Format(time.RFC3339))
					}
				}
				fmt.Fprintf(out, "token: %s\n", mask(ti.Token))
				fmt.Fprintf(out, "env override: %s\n", client.TokenEnv)
				return nil
			},
		},
	)
	return cmd
}

// mask shows only the last four characters of a token.
func mask(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
