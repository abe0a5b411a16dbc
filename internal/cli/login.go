package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-issues/internal/theme"
	"github.com/nhle/jira-issues/internal/ui/form"
)

func newLoginCommand(g *globalOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token in the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", g.configPath, err)
			}

			token = strings.TrimSpace(token)
			if token == "" {
				if !isTerminalFunc() {
					return errors.New("--token is required when not running on a terminal")
				}
				token, err = form.PromptToken(tenant(cfg))
				if err != nil {
					return err
				}
			}

			creds, err := openCredentialsFunc()
			if err != nil {
				return err
			}
			if err := creds.Set(cfg.CredentialKey(), token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s token stored for %s\n",
				theme.SuccessStyle.Render("OK"), tenant(cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token (prompted for when omitted)")
	return cmd
}

func newLogoutCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the API token from the system keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			creds, err := openCredentialsFunc()
			if err != nil {
				return err
			}
			if err := creds.Delete(cfg.CredentialKey()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s token removed for %s\n",
				theme.SuccessStyle.Render("OK"), tenant(cfg))
			return nil
		},
	}
}
