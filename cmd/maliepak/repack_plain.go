package main

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/malie-archive/maliepak"
	"github.com/malie-archive/maliepak/sidecar"
)

func newRepackPlainCmd(log zerolog.Logger) *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "repack-plain <in-dir> <out-archive> <sidecar>",
		Short: "Rebuild a plaintext archive from an extracted tree and its sidecar",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := kf.catalog()
			if err != nil {
				return err
			}
			return runRepackPlain(log, args[0], args[1], args[2], catalog)
		},
	}
	addKeyFlag(cmd, &kf)
	return cmd
}

func runRepackPlain(log zerolog.Logger, inDir, outArchive, sidecarPath string, catalog maliepak.Catalog) error {
	doc, err := sidecar.Load(sidecarPath)
	if err != nil {
		return err
	}
	logKeyProvenance(log, doc, catalog)

	var sources []maliepak.RepackSource
	err = filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == inDir {
			return nil
		}
		rel, err := filepath.Rel(inDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		src := maliepak.RepackSource{Path: rel, IsDir: d.IsDir()}
		if !d.IsDir() {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			src.Data = data
		}
		sources = append(sources, src)
		return nil
	})
	if err != nil {
		return err
	}

	entries, err := maliepak.Reconcile(sources, doc)
	if err != nil {
		return err
	}

	if err := maliepak.Write(outArchive, entries); err != nil {
		return err
	}
	log.Info().Str("out", outArchive).Int("entries", len(entries)).Msg("wrote archive")
	return nil
}

// logKeyProvenance recovers the catalog key that originally opened this
// archive from the sidecar's recorded key_name, purely for provenance
// logging: repack-plain only ever writes a plaintext archive, so the
// resolved key never drives encryption here.
func logKeyProvenance(log zerolog.Logger, doc sidecar.Document, catalog maliepak.Catalog) {
	var keyName string
	for _, e := range doc.Entries {
		if e.KeyName != "" {
			keyName = e.KeyName
			break
		}
	}
	if keyName == "" {
		return
	}
	if _, ok := catalog.Lookup(keyName); ok {
		log.Debug().Str("key_name", keyName).Msg("resolved originating key from sidecar")
	} else {
		log.Debug().Str("key_name", keyName).Msg("sidecar names a key not present in the supplied catalog")
	}
}
