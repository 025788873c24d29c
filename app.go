package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bartek5186/reposicion/internal/console"
	conf "github.com/bartek5186/reposicion/internal/config"
	"github.com/bartek5186/reposicion/internal/dataset"
	"github.com/bartek5186/reposicion/internal/db"
	"github.com/bartek5186/reposicion/internal/history"
	logs "github.com/bartek5186/reposicion/internal/logs"
	"github.com/bartek5186/reposicion/internal/pending"
	"github.com/rs/zerolog"
)

// wersję możesz nadpisać przez: -ldflags "-X 'main.ver=1.0.1'"
var ver = "1.0.0"

const appName = "reposicion"

// app skleja config, logi, bazę i serwisy wspólne dla CLI i tray.
type app struct {
	appDir  string
	cfgPath string
	cfg     *conf.Config
	log     zerolog.Logger
	closers []io.Closer

	registry *db.Registry // nil gdy db_enabled=false albo baza nie wstała
	loader   *dataset.Loader
	pending  *pending.Store
	history  *history.Recorder
}

func setup(forceConsole bool) (*app, error) {
	a := &app{appDir: mustAppDataDir(appName)}
	a.cfgPath = filepath.Join(a.appDir, "config.json")

	cfg, firstRun, err := conf.LoadOrCreate(a.cfgPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear la carpeta de datos: %w", err)
	}

	log, closer, err := logs.New(cfg.DataDir, forceConsole || cfg.LogConsole, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el log: %w", err)
	}
	a.log = log
	a.closers = append(a.closers, closer)
	if firstRun {
		log.Info().Msgf("Utworzono domyślną konfigurację: %s", a.cfgPath)
	}

	opts := []dataset.Option{
		dataset.WithLogger(log),
		dataset.WithEncoding(cfg.SourceEncoding),
	}
	if cfg.DBEnabled {
		// rejestr importów jest pomocniczy; bez bazy aplikacja działa dalej
		dbh, err := db.OpenAt(a.appDir, cfg.DBDriver)
		if err == nil {
			err = dbh.Migrate()
		}
		if err != nil {
			log.Error().Err(err).Msg("DB open error")
		} else {
			log.Info().Str("db", dbh.Path).Msg("DB ready")
			a.closers = append(a.closers, dbh)
			a.registry = db.NewRegistry(dbh)
			opts = append(opts, dataset.WithAuditor(a.registry))
		}
	}

	a.loader = dataset.NewLoader(dataset.DefaultPaths(cfg.DataDir), opts...)
	a.pending = pending.NewStore(filepath.Join(cfg.DataDir, pending.FileName))
	a.history = history.NewRecorder(filepath.Join(cfg.DataDir, history.FileName))

	log.Info().Str("data", cfg.DataDir).Str("rol", cfg.Role).Msgf("Reposición %s uruchomiona", ver)
	return a, nil
}

func (a *app) consoleDeps() console.Deps {
	d := console.Deps{
		Loader:    a.loader,
		Pending:   a.pending,
		History:   a.history,
		ExportDir: a.cfg.ExportDir,
		Role:      a.cfg.Role,
		Log:       a.log,
	}
	if a.registry != nil {
		d.Sources = a.registry
	}
	return d
}

func (a *app) logPath() string {
	return filepath.Join(a.cfg.DataDir, logs.DirName)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
