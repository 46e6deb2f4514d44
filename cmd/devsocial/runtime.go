package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	badgerstore "devsocial/internal/adapter/badger"
	adapthttp "devsocial/internal/adapter/http"
	"devsocial/internal/adapter/memory"
	"devsocial/internal/adapter/metrics"
	"devsocial/internal/adapter/postgres"
	"devsocial/internal/adapter/sealed"
	"devsocial/internal/app"
	"devsocial/internal/config"
	"devsocial/internal/domain"
	"devsocial/internal/logging"
)

var errNotLoggedIn = errors.New("not logged in: run `devsocial login` first")

// globalFlags are the persistent root flags. Non-empty values override the
// config file and the environment.
type globalFlags struct {
	configPath string
	apiURL     string
	store      string
	logLevel   string
}

// runtime is everything a command needs, built once per invocation.
type runtime struct {
	cfg      config.Config
	log      *slog.Logger
	store    domain.CredentialStore
	client   *adapthttp.Client
	session  *app.SessionManager
	notifier domain.Notifier
	metrics  *metrics.Recorder
	out      io.Writer

	closers []func() error
}

func bootstrap(ctx context.Context, flags *globalFlags, out, errOut io.Writer) (*runtime, error) {
	cfg, err := config.Read(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	if flags.store != "" {
		cfg.Store.Driver = flags.store
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:      cfg,
		log:      logging.New(errOut, cfg.Log.Level, cfg.Log.JSON),
		notifier: &consoleNotifier{w: errOut},
		metrics:  metrics.New(),
		out:      out,
	}

	store, err := rt.openStore(ctx)
	if err != nil {
		rt.close()
		return nil, err
	}
	if cfg.Store.Passphrase != "" {
		if store, err = sealed.New(store, cfg.Store.Passphrase); err != nil {
			rt.close()
			return nil, fmt.Errorf("seal store: %w", err)
		}
	}
	rt.store = store

	rt.client, err = adapthttp.New(cfg.APIURL, store,
		adapthttp.WithLogger(rt.log),
		adapthttp.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.session = app.NewSessionManager(store, rt.client,
		app.WithTokenChecker(adapthttp.NewTokenInspector(nil)),
		app.WithSessionLogger(rt.log),
	)
	return rt, nil
}

func (rt *runtime) openStore(ctx context.Context) (domain.CredentialStore, error) {
	sc := rt.cfg.Store
	switch sc.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, sc.DSN)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		return postgres.NewCredentialStore(db, sc.Profile), nil
	default:
		db, err := badgerstore.Open(badgerstore.Config{Path: sc.Path, Logger: rt.log})
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		return db, nil
	}
}

func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn("close failed", "error", err)
		}
	}
	rt.closers = nil
}

// viewOptions wires the runtime's notifier, metrics and logger into a view.
func (rt *runtime) viewOptions(extra ...app.ViewOption) []app.ViewOption {
	return append([]app.ViewOption{
		app.WithNotifier(rt.notifier),
		app.WithMetrics(rt.metrics),
		app.WithLogger(rt.log),
	}, extra...)
}

// requireSession restores the persisted session and fails unless it
// verifies.
func (rt *runtime) requireSession(ctx context.Context) (*domain.User, error) {
	s, err := rt.session.Start(ctx)
	switch s.Gate() {
	case app.GateRender:
		return s.User, nil
	case app.GateBlock:
		return nil, fmt.Errorf("session still verifying: %w", err)
	}
	if err != nil && !errors.Is(err, domain.ErrNoCredentials) {
		rt.log.Debug("session not restored", "error", err)
	}
	return nil, errNotLoggedIn
}

func (rt *runtime) feedAssembler(policy string) (*app.FeedAssembler, error) {
	if policy == "" {
		policy = rt.cfg.Feed.Fallback
	}
	p, err := app.ParseFeedPolicy(policy)
	if err != nil {
		return nil, err
	}
	return app.NewFeedAssembler(rt.client, p, app.DefaultGlobalLimit, rt.log), nil
}

// consoleNotifier prints user-visible messages on stderr.
type consoleNotifier struct {
	w io.Writer
}

func (n *consoleNotifier) Error(msg string) {
	fmt.Fprintln(n.w, "error: "+strings.TrimSpace(msg))
}

func (n *consoleNotifier) Success(msg string) {
	fmt.Fprintln(n.w, strings.TrimSpace(msg))
}
