package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hermes/internal/config"
	"hermes/internal/hermesapi"
	"hermes/internal/logging"
	"hermes/internal/session"
)

type options struct {
	backend      string
	token        string
	authProvider string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hermesctl",
		Short: "Inspect a Hermes dashboard from the terminal",
		Long: `hermesctl resolves people and lists the dashboard feeds of a Hermes
backend using the same caching and batching as the dashboard service.

Defaults come from HERMES_BASE_URL, HERMES_AUTH_PROVIDER and HERMES_TOKEN.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.backend, "backend", os.Getenv("HERMES_BASE_URL"), "Hermes base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("HERMES_TOKEN"), "access token")
	root.PersistentFlags().StringVar(&opts.authProvider, "auth-provider", os.Getenv("HERMES_AUTH_PROVIDER"), "google, dex or okta")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log fetches to stderr")

	root.AddCommand(newPeopleCmd(opts), newRecentCmd(opts), newLatestCmd(opts))
	return root
}

// session builds a one-off dashboard session for the configured user.
func (o *options) session(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.backend != "" {
		cfg.Backend.BaseURL = o.backend
	}
	if o.authProvider != "" {
		cfg.Backend.AuthProvider = o.authProvider
	}

	client, err := hermesapi.New(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("create hermes client: %w", err)
	}

	log := zap.NewNop()
	if o.verbose {
		log = logging.NewWithWriter(cmd.ErrOrStderr(), zapcore.DebugLevel, time.Local)
	}

	mgr := session.NewManager(client, session.Config{
		People:    cfg.People,
		Dashboard: cfg.Dashboard,
		DocsIndex: cfg.Backend.DocsIndex,
	}, session.Metrics{}, log)
	return mgr.Get(o.token), nil
}
