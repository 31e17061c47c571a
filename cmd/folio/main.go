// Command folio is the terminal client for the Folio API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"folio/internal/cli"
	"folio/internal/cliconfig"
	"folio/internal/logger"
	"folio/internal/session"
)

var (
	configPath = flag.String("config", cliconfig.DefaultPath(), "Path to the TOML config file.")
	verbose    = flag.Bool("v", false, "Log client diagnostics to stderr.")
)

func main() {
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	flag.Parse()

	cfg, err := cliconfig.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	log := zap.NewNop().Sugar()
	if *verbose {
		log = logger.New("development")
	}

	app := cli.New(cfg, log, session.NewFileStore(cfg.StateDir))
	app.Styled = isatty.IsTerminal(os.Stdout.Fd())
	app.Register(commander)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	_ = log.Sync()
	os.Exit(int(status))
}
