// Package cmd implements the fa CLI application to analyse broker exports.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/store"
	"github.com/etnz/folio/workbook"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands lists the fa subcommands, by group.
var Commands = map[string][]subcommands.Command{
	"analysis": {
		&importCmd{},
		&timelineCmd{},
		&detectCmd{},
	},
	"results": {
		&reportCmd{},
		&metricsCmd{},
		&queryCmd{},
		&clearCmd{},
	},
	"configuration": {
		&initConfigCmd{},
		&checkConfigCmd{},
	},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", "", "Path to the configuration file. Defaults to $"+EnvConfigFile+", then "+folio.ConfigFileName+".")
	storeFlag  = flag.String("store", "", "Override the store backend (memory, sqlite, redis). Defaults to $"+EnvStore+".")
	Verbose    = flag.Bool("v", false, "Log debug messages. Also enabled by "+EnvVerbose+"=true.")
)

// environment variables are read lazily: main loads .env after flags are declared.

// ConfigPath returns the path of the configuration file.
func ConfigPath() string {
	if *configFile != "" {
		return *configFile
	}
	if v := os.Getenv(EnvConfigFile); v != "" {
		return v
	}
	return folio.ConfigFileName
}

func storeBackend() string {
	if *storeFlag != "" {
		return *storeFlag
	}
	return os.Getenv(EnvStore)
}

func verbose() bool { return *Verbose || os.Getenv(EnvVerbose) == "true" }

// LoadConfig loads the configuration file, with flag overrides applied.
// A missing file yields the default configuration.
func LoadConfig() (*folio.Config, error) {
	cfg, err := folio.LoadConfig(ConfigPath())
	if err != nil {
		return nil, err
	}
	if b := storeBackend(); b != "" {
		cfg.Store.Backend = b
	}
	if verbose() {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// session is what every command needs: the configuration, a logger and the store.
type session struct {
	cfg    *folio.Config
	logger *zap.Logger
	store  store.Store
}

// openSession loads the configuration and opens the logger and the store.
func openSession() (*session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := folio.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, store: s}, nil
}

func (s *session) Close() {
	s.store.Close()
	s.logger.Sync()
}

// importer returns an importer configured for broker, or the configured one if empty.
func (s *session) importer(broker string) (*folio.Importer, error) {
	im, err := folio.NewImporter(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	if broker != "" {
		p, err := folio.ProfileByName(broker)
		if err != nil {
			return nil, err
		}
		im.Profile = p.With(s.cfg.Columns)
	}
	return im, nil
}

// loadResult returns the last saved result, with a friendly message when there is none.
func (s *session) loadResult(ctx context.Context) (*folio.Result, subcommands.ExitStatus) {
	r, err := store.LoadResult(ctx, s.store)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(os.Stderr, err)
		return nil, subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the last result: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return r, subcommands.ExitSuccess
}

// openWorkbook is the folio.OpenFunc used by commands.
var openWorkbook folio.OpenFunc = workbook.Open
