package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type initConfigCmd struct{}

func (*initConfigCmd) Name() string     { return "init-config" }
func (*initConfigCmd) Synopsis() string { return "write a documented configuration file" }
func (*initConfigCmd) Usage() string {
	return `fa [-config <file>] init-config

  Writes the default configuration, with comments, to the configuration path.
  It never overwrites an existing file.
`
}

func (c *initConfigCmd) SetFlags(f *flag.FlagSet) {}

func (c *initConfigCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := folio.InitConfig(ConfigPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Configuration written to %s\n", ConfigPath())
	return subcommands.ExitSuccess
}

type checkConfigCmd struct{}

func (*checkConfigCmd) Name() string     { return "check-config" }
func (*checkConfigCmd) Synopsis() string { return "validate the configuration file" }
func (*checkConfigCmd) Usage() string {
	return `fa [-config <file>] check-config

  Reads and validates the configuration file, and prints the effective settings.
`
}

func (c *checkConfigCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkConfigCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := folio.ReadConfig(ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("broker: %s\n", cfg.Profile.Broker)
	fmt.Printf("currency: %s\n", cfg.Currency)
	fmt.Printf("risk free rate: %g%%\n", cfg.RiskFreeRate)
	switch cfg.Store.Backend {
	case "sqlite":
		fmt.Printf("store: sqlite %s\n", cfg.Store.Path)
	case "redis":
		fmt.Printf("store: redis %s\n", cfg.Store.RedisAddr)
	default:
		fmt.Printf("store: %s\n", cfg.Store.Backend)
	}
	fmt.Printf("log: %s %s\n", cfg.Log.Level, cfg.Log.Encoding)
	fmt.Fprintf(os.Stderr, "%s is valid.\n", ConfigPath())
	return subcommands.ExitSuccess
}
