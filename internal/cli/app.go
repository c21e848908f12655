package cli

import (
	"os"

	"github.com/roach88/linkback/internal/api"
	"github.com/roach88/linkback/internal/config"
	"github.com/roach88/linkback/internal/host"
	"github.com/roach88/linkback/internal/httpx"
	"github.com/roach88/linkback/internal/ident"
	"github.com/roach88/linkback/internal/logging"
	"github.com/roach88/linkback/internal/store"
)

// App bundles the wired client components a command operates on.
type App struct {
	Config *config.Config
	Info   *host.Info
	Log    *logging.Logger
	Store  *store.Store
	Ident  *ident.Provider
	API    *api.Client
}

// openApp loads configuration and assembles the client stack. The
// session id persisted from earlier runs is restored onto the protocol
// client.
func openApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	log := logging.New(os.Stderr, cfg.Logging.Enabled || opts.Verbose)
	info := cfg.HostInfo()

	st, err := store.Open(cfg.StorePath, cfg.ApplicationID)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening state store", err)
	}

	// No advertising subsystem exists off-device; the provider
	// degrades to the machine-scoped fallback identifier.
	idp := ident.NewProvider(nil, ident.MachineID, nil, log)
	hc := httpx.NewClient(info.UserAgent(), log)
	client := api.New(info, idp, hc, log)

	if sid, err := st.SessionID(); err == nil && sid != "" {
		client.SetSessionID(sid)
	}

	return &App{Config: cfg, Info: info, Log: log, Store: st, Ident: idp, API: client}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}
