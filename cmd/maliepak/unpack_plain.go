package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/malie-archive/maliepak"
	"github.com/malie-archive/maliepak/view"
)

func newUnpackPlainCmd(log zerolog.Logger) *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "unpack-plain <archive> <out-dir>",
		Short: "Decrypt an archive in place to a single plaintext blob",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := kf.catalog()
			if err != nil {
				return err
			}
			return runUnpackPlain(log, args[0], args[1], catalog)
		},
	}
	addKeyFlag(cmd, &kf)
	return cmd
}

func runUnpackPlain(log zerolog.Logger, archivePath, outDir string, catalog maliepak.Catalog) error {
	v, err := view.Open(archivePath)
	if err != nil {
		return errors.Wrap(maliepak.ErrInputNotFound, err.Error())
	}

	a, err := maliepak.Open(v, catalog)
	if err != nil {
		a, err = maliepak.OpenPlain(v)
		if err != nil {
			v.Close()
			return err
		}
	}
	defer a.Close()
	log.Info().Str("key", a.KeyName()).Msg("opened archive")

	blob, err := a.DecryptFull()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(outDir, filepath.Base(archivePath)+".plain")
	if err := os.WriteFile(outPath, blob, 0o644); err != nil {
		return err
	}
	log.Info().Str("out", outPath).Int("bytes", len(blob)).Msg("wrote plaintext blob")
	return nil
}
