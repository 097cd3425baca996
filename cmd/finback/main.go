package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/finback-chess/finback/internal/engine"
	"github.com/finback-chess/finback/internal/logx"
	"github.com/finback-chess/finback/internal/storage"
	"github.com/finback-chess/finback/internal/uci"
)

func main() {
	if err := (&cli.Command{
		Name:  "finback",
		Usage: "multi-variant UCI chess engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "diagnostic log level (debug, info, warn, error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "book",
				Usage: "path to a Polyglot opening book",
			},
			&cli.BoolFlag{
				Name:  "no-persist",
				Usage: "do not load or save option values",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logx.New(logx.LevelByString(c.String("log-level")), nil)

			var store *storage.Store
			if !c.Bool("no-persist") {
				var err error
				store, err = storage.Open()
				if err != nil {
					// Play on without persistence; another instance
					// may be holding the database lock.
					log.Warnf("option persistence disabled: %v", err)
					store = nil
				}
			}

			facade := uci.NewFacade(uci.Config{
				Log:      log,
				Out:      os.Stdout,
				Engine:   engine.New(),
				BookPath: c.String("book"),
			}, store)

			return facade.RunLines(os.Stdin)
		},
	}).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
