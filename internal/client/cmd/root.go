package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/cascaessama/MobileConectaEdu/internal/client/api"
	"github.com/cascaessama/MobileConectaEdu/internal/client/config"
	"github.com/cascaessama/MobileConectaEdu/internal/client/session"
	"github.com/cascaessama/MobileConectaEdu/internal/client/vault"
)

// ErrSessionExpired is returned by every command when the portal wants a new
// login.
var ErrSessionExpired = errors.New("session expired")

const sessionExpiredMessage = "Session expired. Please log in again."

// app holds what subcommands share. The client is built on first use so that
// version and vault commands never touch the session store.
type app struct {
	serverURL string
	verbose   bool

	cfg    config.Config
	store  *session.Store
	client *api.Client
}

func NewRootCmd(version, buildDate string) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "conectaedu",
		Short:         "ConectaEdu portal client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "Portal API base URL (default $CONECTAEDU_API_URL or "+config.DefaultAPIURL+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log HTTP traffic to stderr")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newLoginCmd(a), newLogoutCmd(a), newStatusCmd(a))
	root.AddCommand(newPostsCmd(a))
	root.AddCommand(newUsersCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(newVaultCmd(a))
	return root
}

func (a *app) config() config.Config {
	cfg := config.Load()
	if a.serverURL != "" {
		cfg.APIURL = a.serverURL
	}
	return cfg
}

func (a *app) open(cmd *cobra.Command) (*api.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	a.cfg = a.config()
	key, err := vault.LoadOrGenerate(a.cfg.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	store, err := session.Open(a.cfg.SessionDSN, key)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if a.verbose {
		logger = log.New(cmd.ErrOrStderr(), "conectaedu: ", log.LstdFlags|log.Lshortfile)
	}
	a.store = store
	a.client = api.New(a.cfg.APIURL, store,
		api.WithLogger(logger),
		api.WithLoginTimeout(a.cfg.LoginTimeout),
	)
	return a.client, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store, a.client = nil, nil
	return err
}

// friendly collapses auth failures into ErrSessionExpired.
func friendly(err error) error {
	if api.NeedsLogin(err) {
		return ErrSessionExpired
	}
	return err
}

// Message is the text printed for an error returned by a command.
func Message(err error) string {
	if errors.Is(err, ErrSessionExpired) {
		return sessionExpiredMessage
	}
	return err.Error()
}
