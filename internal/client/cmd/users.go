package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/display"
	"github.com/cascaessama/MobileConectaEdu/internal/client/filter"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

type usersClient struct{ app *app }

// userFlags carries role as text; an unknown value is rejected by the client
// rather than silently mapped to student.
type userFlags struct {
	username, password, role string
}

func (f userFlags) input() models.UserInput {
	return models.UserInput{
		Username: f.username,
		Password: f.password,
		Role:     models.Role(strings.ToLower(strings.TrimSpace(f.role))),
	}
}

func newUsersCmd(a *app) *cobra.Command {
	u := &usersClient{app: a}
	cmd := &cobra.Command{Use: "users", Short: "Manage portal users"}

	var search string
	var asJSON bool
	list := &cobra.Command{Use: "list", Short: "List users", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return u.list(cmd, search, asJSON)
	}}
	list.Flags().StringVarP(&search, "search", "s", "", "Only show users whose name or role contain the text")
	list.Flags().BoolVar(&asJSON, "json", false, "Print users as JSON")
	cmd.AddCommand(list)

	var in userFlags
	create := &cobra.Command{Use: "create", Short: "Register a teacher or student", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return u.create(cmd, in)
	}}
	create.Flags().StringVarP(&in.username, "username", "u", "", "Username")
	create.Flags().StringVar(&in.password, "password", "", "Password (prompted when empty)")
	create.Flags().StringVarP(&in.role, "role", "r", "", "teacher or student")
	cmd.AddCommand(create)

	var upd userFlags
	edit := &cobra.Command{Use: "edit <id>", Short: "Edit a user", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return u.edit(cmd, args[0], upd)
	}}
	edit.Flags().StringVarP(&upd.username, "username", "u", "", "New username")
	edit.Flags().StringVar(&upd.password, "password", "", "New password (unchanged when empty)")
	edit.Flags().StringVarP(&upd.role, "role", "r", "", "admin, teacher or student")
	cmd.AddCommand(edit)

	var yes bool
	del := &cobra.Command{Use: "delete <id>", Short: "Delete a user", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return u.delete(cmd, args[0], yes)
	}}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.AddCommand(del)
	return cmd
}

func (u *usersClient) list(cmd *cobra.Command, search string, asJSON bool) error {
	c, err := u.app.open(cmd)
	if err != nil {
		return err
	}
	users, err := c.ListUsers(cmd.Context())
	if err != nil {
		return friendly(err)
	}
	users = filter.Users(users, search)
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, users)
	}
	if len(users) == 0 {
		fmt.Fprintln(out, display.Muted("No users found."))
		return nil
	}
	for _, user := range users {
		fmt.Fprintln(out, display.UserRow(user, false), display.Muted(user.ID))
	}
	return nil
}

func (u *usersClient) create(cmd *cobra.Command, f userFlags) error {
	c, err := u.app.open(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd)
	if f.username, err = p.line("Username: ", f.username); err != nil {
		return err
	}
	if f.password, err = p.password("Password: ", f.password); err != nil {
		return err
	}
	if f.role, err = p.line("Role (teacher/student): ", f.role); err != nil {
		return err
	}
	in := f.input()
	if _, err := c.CreateUser(cmd.Context(), in); err != nil {
		return friendly(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s created (%s)\n", in.Username, in.Role)
	return nil
}

// edit fills missing username and role from the current record.
func (u *usersClient) edit(cmd *cobra.Command, id string, f userFlags) error {
	c, err := u.app.open(cmd)
	if err != nil {
		return err
	}
	if f.username == "" || f.role == "" {
		users, err := c.ListUsers(cmd.Context())
		if err != nil {
			return friendly(err)
		}
		var cur *models.User
		for i := range users {
			if users[i].ID == id {
				cur = &users[i]
				break
			}
		}
		if cur == nil {
			return fmt.Errorf("user %s not found", id)
		}
		if f.username == "" {
			f.username = cur.Username
		}
		if f.role == "" {
			f.role = string(cur.Role)
		}
	}
	in := f.input()
	if _, err := c.UpdateUser(cmd.Context(), id, in); err != nil {
		return friendly(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %s updated (%s)\n", in.Username, in.Role)
	return nil
}

func (u *usersClient) delete(cmd *cobra.Command, id string, yes bool) error {
	c, err := u.app.open(cmd)
	if err != nil {
		return err
	}
	ok, err := newPrompter(cmd).confirm(fmt.Sprintf("Delete user %s?", id), yes)
	if err != nil || !ok {
		return err
	}
	if err := c.DeleteUser(cmd.Context(), id); err != nil {
		return friendly(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "User deleted")
	return nil
}
