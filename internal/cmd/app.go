package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"care-connect/client/internal/activity"
	"care-connect/client/internal/adminstatus"
	"care-connect/client/internal/api"
	"care-connect/client/internal/config"
	"care-connect/client/internal/db"
	"care-connect/client/internal/db/migrate"
	"care-connect/client/internal/events"
	"care-connect/client/internal/journal"
	"care-connect/client/internal/security"
	"care-connect/client/internal/session"
	"care-connect/client/internal/session/domain"
	"care-connect/client/internal/session/repository"
	"care-connect/client/internal/telemetry"
	otelx "care-connect/client/internal/telemetry/otel"
)

// tokenSealScope isolates the seal key for the token slot from any future
// sealed values.
const tokenSealScope = "session-token"

var errNotLoggedIn = errors.New("not logged in; run `careconnect login`")

// app wires the client together for one CLI invocation.
type app struct {
	cfg       *config.Config
	database  *sql.DB
	store     repository.Repository
	bus       *events.Bus
	client    *api.Client
	admin     *adminstatus.Cache
	monitor   *session.Monitor
	emitter   telemetry.EventEmitter
	providers *otelx.Providers
	journal   *journal.SQLite
	installID string

	inputFeed *activity.Feed
	cmdFeed   *activity.Feed
	apiFeed   *activity.Feed
}

// newApp loads config, opens and migrates the local store and wires the
// session monitor. Callers must Close the returned app.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	installID, err := security.LoadOrCreateInstallID(cfg.InstallIDPath())
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(cfg.SessionDBPath(), "up"); err != nil {
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	database, err := db.Open(cfg.SessionDBPath())
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		database:  database,
		store:     repository.NewSQLite(database, security.NewSealer(installID, tokenSealScope)),
		bus:       events.NewBus(),
		installID: installID,
		inputFeed: activity.NewFeed(activity.KindInput),
		cmdFeed:   activity.NewFeed(activity.KindCommand),
		apiFeed:   activity.NewFeed(activity.KindAPICall),
	}

	a.client = api.NewClient(cfg.APIBaseURL, a.sessionToken, a.apiFeed.Emit)
	a.client.HTTPClient.Timeout = cfg.Timeout()
	a.admin = adminstatus.New(a.client, a.store, a.bus, cfg.CacheTTL())

	tracker := activity.NewTracker(a.inputFeed, a.cmdFeed, a.apiFeed)
	a.monitor = session.NewMonitor(a.store, tracker, a.bus, a.admin, a.redirectToLogin, nil)

	providers, err := otelx.NewProviders(ctx, cfg.OTLPEndpoint, "careconnect-client", cfg.OTLPInsecure)
	if err != nil {
		database.Close()
		return nil, err
	}
	providers.SetGlobal()
	a.providers = providers
	a.emitter = otelx.NewEventEmitter(providers.LoggerProvider)

	a.journal = journal.NewSQLite(database)
	journal.NewRecorder(a.journal).Attach(a.bus)

	a.bus.SubscribeSessionEnded(func(reason string) {
		telemetry.EmitAsync(a.emitter, &telemetry.Event{
			Kind:      telemetry.KindSessionEnded,
			InstallID: a.installID,
			Reason:    reason,
			At:        time.Now().UTC(),
		})
	})
	a.client.OnError = func(method, path string, err error) {
		telemetry.EmitAsync(a.emitter, &telemetry.Event{
			Kind:      telemetry.KindAPIFailure,
			InstallID: a.installID,
			At:        time.Now().UTC(),
			Attrs: map[string]string{
				"method": method,
				"path":   path,
				"error":  err.Error(),
			},
		})
	}

	return a, nil
}

// Close releases the local store and drains telemetry.
func (a *app) Close() {
	if a.providers != nil {
		ctx, cancel := context.WithTimeout(context.Background(), telemetry.ShutdownDrainDuration)
		defer cancel()
		if err := a.providers.Shutdown(ctx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}
	if a.database != nil {
		a.database.Close()
	}
}

func (a *app) sessionToken(ctx context.Context) (string, error) {
	return a.store.Token(ctx)
}

// printPendingLogoutReason shows and consumes the reason the previous
// session ended, if any. First caller wins; the slot is single-read.
func (a *app) printPendingLogoutReason(ctx context.Context) {
	reason, err := a.store.TakeLogoutReason(ctx)
	if err != nil {
		log.Printf("read logout reason: %v", err)
		return
	}
	if reason != "" {
		fmt.Fprintln(os.Stderr, reason)
	}
}

// redirectToLogin is the monitor's redirect hook. The monitor persists the
// logout reason before redirecting, so consuming the single-read slot here
// shows the banner exactly once; later pending checks in the same
// invocation find the slot empty.
func (a *app) redirectToLogin(string) {
	a.printPendingLogoutReason(context.Background())
}

// requireSession resumes monitoring for this invocation and fails when no
// usable session exists. Commands that talk to the backend call this first.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.monitor.Resume(ctx); err != nil {
		return err
	}
	if !a.monitor.Monitoring() {
		a.printPendingLogoutReason(ctx)
		return errNotLoggedIn
	}
	a.cmdFeed.Emit()
	return nil
}

// currentUser returns the persisted user record, if any.
func (a *app) currentUser(ctx context.Context) (*domain.User, error) {
	return a.store.User(ctx)
}
