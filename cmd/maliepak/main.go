// Command maliepak unpacks, repacks, and converts the proprietary
// visual-novel archive format this module implements.
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := newRootCmd(log)
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("maliepak failed")
		os.Exit(exitCodeFor(err))
	}
}
