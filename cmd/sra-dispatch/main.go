// Command sra-dispatch balances archive downloads across compute nodes and
// writes the group lists, run config and submit file for the scheduler.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	if err := App().Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("sra-dispatch failed")
	}
}
