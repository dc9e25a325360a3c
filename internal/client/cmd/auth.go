package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			if username, err = p.line("Username: ", username); err != nil {
				return err
			}
			if password, err = p.password("Password: ", password); err != nil {
				return err
			}
			s, err := c.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (home: %s)\n", s.Role, session.LandingFor(s.Role))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session and home screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(cmd); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			landing := session.Bootstrap(cmd.Context(), a.store, false)
			if landing == session.LandingLogin {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			s, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Logged in as %s (home: %s)\n", s.Role, landing)
			fmt.Fprintf(out, "Server: %s\n", a.cfg.APIURL)
			return nil
		},
	}
}
