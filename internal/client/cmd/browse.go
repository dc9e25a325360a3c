package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/tui"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "browse [posts|users]",
		Short:     "Browse posts or users interactively with live search",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"posts", "users"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd)
			if err != nil {
				return err
			}
			kind := tui.KindPosts
			if len(args) == 1 && args[0] == "users" {
				kind = tui.KindUsers
			}
			ctx := cmd.Context()
			m := tui.New(kind, tui.Source{
				Posts: func() ([]models.Post, error) { return c.ListPosts(ctx) },
				Users: func() ([]models.User, error) { return c.ListUsers(ctx) },
			})
			prog := tea.NewProgram(m,
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := prog.Run()
			if err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
				return friendly(fm.Err())
			}
			return nil
		},
	}
}
