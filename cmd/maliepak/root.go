package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd(log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "maliepak",
		Short:         "Read, write, and convert the engine's archive and image container formats",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newUnpackPlainCmd(log),
		newUnpackCmd(log),
		newRepackPlainCmd(log),
		newMgfCmd(log),
	)
	return root
}
