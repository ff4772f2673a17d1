package app

import (
	"context"
	"fmt"
	"time"

	"github.com/policycheck/clerk/internal/config"
	"github.com/policycheck/clerk/internal/credstore"
	"github.com/policycheck/clerk/internal/poll"
	"github.com/policycheck/clerk/internal/policycheck"
	"github.com/policycheck/clerk/internal/session"
	"github.com/policycheck/clerk/internal/state"
	"github.com/policycheck/clerk/internal/ui"
)

// Options configure the clerk application.
type Options struct {
	ConfigPath string
	APIURL     string // overrides the configured api_url when set
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the clerk TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	creds, err := credstore.Open(cfg.SessionPath)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}

	// The middleware chain is composed once, here: bearer injection and
	// request ids outbound, session teardown on any 401 inbound. The UI
	// notices the cleared session on its next tick and returns to the
	// login view.
	client, err := policycheck.NewClient(cfg.APIURL,
		policycheck.WithRequestHook(policycheck.BearerToken(creds.Token)),
		policycheck.WithRequestHook(policycheck.RequestID()),
		policycheck.WithResponseHook(policycheck.OnUnauthorized(creds.Clear)),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	sess := session.New(creds, client)
	store := &state.Store{}
	poller := poll.New(client, cfg.PollInterval)

	StartRefresher(ctx, store, client, sess, cfg.PollInterval)

	// Populate the store before the UI starts so an authenticated boot
	// renders data on the first frame.
	if sess.IsAuthenticated() {
		refresh(ctx, store, client)
	}

	defer poller.Stop()

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Session:   sess,
		Store:     store,
		Poller:    poller,
		PollTick:  cfg.PollInterval,
		ThemeName: cfg.Theme,
		APIURL:    cfg.APIURL,
	})
}
