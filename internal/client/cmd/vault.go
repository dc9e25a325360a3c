package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/vault"
)

// The vault key seals the stored token. It is created on first use; init
// exists for provisioning it ahead of time.
func newVaultCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "vault", Short: "Manage the local key that seals the session"}
	cmd.AddCommand(&cobra.Command{Use: "init", Short: "Generate local vault key", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		path := a.config().VaultPath
		if _, err := vault.Generate(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Vault key generated at", path)
		return nil
	}})
	cmd.AddCommand(&cobra.Command{Use: "status", Short: "Show vault status", Args: cobra.NoArgs, Run: func(cmd *cobra.Command, args []string) {
		path := a.config().VaultPath
		if vault.Exists(path) {
			fmt.Fprintln(cmd.OutOrStdout(), "Vault: ready", path)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Vault: not initialized")
		}
	}})
	return cmd
}
