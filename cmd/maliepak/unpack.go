package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/malie-archive/maliepak"
	"github.com/malie-archive/maliepak/dispatch"
	"github.com/malie-archive/maliepak/sidecar"
	"github.com/malie-archive/maliepak/view"
)

func newUnpackCmd(log zerolog.Logger) *cobra.Command {
	var kf keyFlags
	var convertMGF bool
	var tinyComplement bool

	cmd := &cobra.Command{
		Use:   "unpack <archive> <out-dir>",
		Short: "Extract every entry and emit a sidecar metadata document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := kf.catalog()
			if err != nil {
				return err
			}
			return runUnpack(log, args[0], args[1], catalog, dispatch.Options{
				ConvertMGF:          convertMGF,
				TinyEntryComplement: tinyComplement,
				Logger:              &log,
			})
		},
	}
	addKeyFlag(cmd, &kf)
	cmd.Flags().BoolVar(&convertMGF, "convert-mgf", false, "also write a .png sibling for every .mgf entry")
	cmd.Flags().BoolVar(&tinyComplement, "tiny-entry-complement", false, "apply the unconfirmed sub-16-byte byte-complement transform")
	return cmd
}

func runUnpack(log zerolog.Logger, archivePath, outDir string, catalog maliepak.Catalog, opts dispatch.Options) error {
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
	log.Info().Str("key", a.KeyName()).Int("entries", len(a.Entries())).Msg("opened archive")

	for _, e := range a.Entries() {
		if e.IsDir() {
			// Materialize even childless directories so a later
			// repack-plain's directory walk observes them.
			if err := os.MkdirAll(filepath.Join(outDir, e.Path), 0o755); err != nil {
				return errors.Wrap(err, "create directory")
			}
			continue
		}
		data, err := a.ReadEntry(e)
		if err != nil {
			return err
		}
		if err := dispatch.Write(outDir, e.Path, data, opts); err != nil {
			return err
		}
	}

	doc := a.ExportSidecar()
	sidecarPath := filepath.Join(outDir, filepath.Base(archivePath)+".sidecar.json")
	if err := sidecar.Save(sidecarPath, doc); err != nil {
		return err
	}
	log.Info().Str("sidecar", sidecarPath).Msg("wrote sidecar metadata")
	return nil
}
