package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the eBay OAuth2 credential",
	}
	cmd.AddCommand(authLoginCommand())
	cmd.AddCommand(authStatusCommand())
	cmd.AddCommand(authURLCommand())
	cmd.AddCommand(authLogoutCommand())
	return cmd
}

func authLoginCommand() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the authorization-code flow and store the token",
		Long: `Obtains a user token. With --code the authorization code is taken
as given. Otherwise the consent flow runs: a local callback listener
when consent.callback_addr is set, or a terminal prompt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), true, code)
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.tokens.Login(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in, token valid until %s\n",
				rec.ExpiresAt().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code or full redirect URL")
	return cmd
}

func authStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored token's state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.tokens.Current(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rec == nil {
				fmt.Fprintln(out, "no token stored, run 'auth login'")
				return nil
			}

			expires := rec.ExpiresAt()
			if rec.Usable(time.Now()) {
				fmt.Fprintf(out, "token valid until %s\n", expires.Format(time.RFC3339))
			} else {
				fmt.Fprintf(out, "token expired at %s\n", expires.Format(time.RFC3339))
			}
			if rec.RefreshToken != "" {
				fmt.Fprintln(out, "refresh token present")
			} else {
				fmt.Fprintln(out, "no refresh token, re-login needed on expiry")
			}
			return nil
		},
	}
}

func authURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the consent URL without starting a flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			u, err := a.tokens.AuthorizationURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.tokens.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token deleted")
			return nil
		},
	}
}
