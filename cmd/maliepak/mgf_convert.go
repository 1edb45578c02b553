package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/malie-archive/maliepak/mgf"
)

// newMgfCmd implements the conceptual `mgf<->png <file>` command surface
// (spec.md section 6): direction is auto-detected from the input's own
// signature, so one command covers both conversions.
func newMgfCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a file between the mgf image container and PNG, auto-detecting direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(log, args[0])
		},
	}
}

func runConvert(log zerolog.Logger, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	var out []byte
	var newExt string
	switch {
	case mgf.IsMGF(b):
		out, err = mgf.ToPNG(b)
		newExt = ".png"
	case mgf.IsPNG(b):
		out, err = mgf.ToMGF(b, 0x00)
		newExt = ".mgf"
	default:
		return errors.Errorf("%s: not an mgf or PNG signature", path)
	}
	if err != nil {
		return err
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + newExt
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return errors.Wrap(err, "write output")
	}
	log.Info().Str("out", outPath).Msg("converted image container")
	return nil
}
