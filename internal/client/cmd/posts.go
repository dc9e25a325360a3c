package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/api"
	"github.com/cascaessama/MobileConectaEdu/internal/client/display"
	"github.com/cascaessama/MobileConectaEdu/internal/client/filter"
	"github.com/cascaessama/MobileConectaEdu/internal/shared/models"
)

type postsClient struct{ app *app }

func newPostsCmd(a *app) *cobra.Command {
	p := &postsClient{app: a}
	cmd := &cobra.Command{Use: "posts", Short: "Read and manage portal posts"}

	var search string
	var full, asJSON bool
	list := &cobra.Command{Use: "list", Short: "List posts", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return p.list(cmd, search, full, asJSON)
	}}
	list.Flags().StringVarP(&search, "search", "s", "", "Only show posts whose title, content or author contain the text")
	list.Flags().BoolVar(&full, "full", false, "Show full content instead of a preview")
	list.Flags().BoolVar(&asJSON, "json", false, "Print posts as JSON")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{Use: "show <id>", Short: "Show one post", Args: cobra.ExactArgs(1), RunE: p.show})

	var in models.PostInput
	create := &cobra.Command{Use: "create", Short: "Publish a post", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		return p.create(cmd, in)
	}}
	create.Flags().StringVarP(&in.Title, "title", "t", "", "Title")
	create.Flags().StringVarP(&in.Body, "content", "c", "", "Content")
	create.Flags().StringVarP(&in.Author, "author", "a", "", "Author")
	cmd.AddCommand(create)

	var upd models.PostInput
	edit := &cobra.Command{Use: "edit <id>", Short: "Edit a post", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return p.edit(cmd, args[0], upd)
	}}
	edit.Flags().StringVarP(&upd.Title, "title", "t", "", "New title")
	edit.Flags().StringVarP(&upd.Body, "content", "c", "", "New content")
	edit.Flags().StringVarP(&upd.Author, "author", "a", "", "New author")
	cmd.AddCommand(edit)

	var yes bool
	del := &cobra.Command{Use: "delete <id>", Short: "Delete a post", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		return p.delete(cmd, args[0], yes)
	}}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.AddCommand(del)
	return cmd
}

func (p *postsClient) list(cmd *cobra.Command, search string, full, asJSON bool) error {
	c, err := p.app.open(cmd)
	if err != nil {
		return err
	}
	posts, err := c.ListPosts(cmd.Context())
	if err != nil {
		return friendly(err)
	}
	posts = filter.Posts(posts, search)
	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, posts)
	}
	if len(posts) == 0 {
		fmt.Fprintln(out, display.Muted("No posts found."))
		return nil
	}
	for _, post := range posts {
		fmt.Fprintln(out, display.PostCard(post, full, false))
		if post.Transient {
			fmt.Fprintln(out, display.Muted("id: (none)"))
		} else {
			fmt.Fprintln(out, display.Muted("id: "+post.ID))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func (p *postsClient) show(cmd *cobra.Command, args []string) error {
	c, err := p.app.open(cmd)
	if err != nil {
		return err
	}
	post, err := findPost(cmd.Context(), c, args[0])
	if err != nil {
		return friendly(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), display.PostCard(post, true, false))
	return nil
}

func (p *postsClient) create(cmd *cobra.Command, in models.PostInput) error {
	c, err := p.app.open(cmd)
	if err != nil {
		return err
	}
	pr := newPrompter(cmd)
	if in.Title, err = pr.line("Title: ", in.Title); err != nil {
		return err
	}
	if in.Body, err = pr.text("Content", in.Body); err != nil {
		return err
	}
	if in.Author, err = pr.line("Author: ", in.Author); err != nil {
		return err
	}
	if _, err := c.CreatePost(cmd.Context(), in); err != nil {
		return friendly(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Post published:", in.Title)
	return nil
}

// edit starts from the current post so unset flags keep their values.
func (p *postsClient) edit(cmd *cobra.Command, id string, in models.PostInput) error {
	c, err := p.app.open(cmd)
	if err != nil {
		return err
	}
	cur, err := findPost(cmd.Context(), c, id)
	if err != nil {
		return friendly(err)
	}
	if in.Title == "" {
		in.Title = cur.Title
	}
	if in.Body == "" {
		in.Body = cur.Body
	}
	if in.Author == "" {
		in.Author = cur.Author
	}
	postID, err := api.PostID(cur)
	if err != nil {
		return err
	}
	if _, err := c.UpdatePost(cmd.Context(), postID, in); err != nil {
		return friendly(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Post updated:", in.Title)
	return nil
}

// delete resolves id against the list first so posts without a backend
// identifier never reach the network.
func (p *postsClient) delete(cmd *cobra.Command, id string, yes bool) error {
	c, err := p.app.open(cmd)
	if err != nil {
		return err
	}
	cur, err := findPost(cmd.Context(), c, id)
	if err != nil {
		return friendly(err)
	}
	postID, err := api.PostID(cur)
	if err != nil {
		return err
	}
	ok, err := newPrompter(cmd).confirm(fmt.Sprintf("Delete post %q?", cur.Title), yes)
	if err != nil || !ok {
		return err
	}
	if err := c.DeletePost(cmd.Context(), postID); err != nil {
		return friendly(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Post deleted")
	return nil
}

// findPost loads the list and picks id from it; the portal has no
// single-post endpoint.
func findPost(ctx context.Context, c *api.Client, id string) (models.Post, error) {
	posts, err := c.ListPosts(ctx)
	if err != nil {
		return models.Post{}, err
	}
	for _, post := range posts {
		if post.ID == id {
			return post, nil
		}
	}
	return models.Post{}, fmt.Errorf("post %s not found", id)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
