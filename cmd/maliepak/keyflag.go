package main

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malie-archive/maliepak"
)

// keyFlags collects repeated --key label:hexkey flags into a Catalog.
type keyFlags struct {
	raw []string
}

func addKeyFlag(cmd *cobra.Command, kf *keyFlags) {
	cmd.Flags().StringArrayVar(&kf.raw, "key", nil,
		"known archive key as label:hex64, repeatable; trial order is flag order")
}

func (kf keyFlags) catalog() (maliepak.Catalog, error) {
	keys := make([]maliepak.Key, 0, len(kf.raw))
	for _, spec := range kf.raw {
		label, hexKey, ok := cut(spec, ':')
		if !ok {
			return nil, errors.Errorf("--key %q: expected label:hex64", spec)
		}
		b, err := hex.DecodeString(hexKey)
		if err != nil || len(b) != maliepak.KeySize {
			return nil, errors.Errorf("--key %q: expected %d hex bytes", spec, maliepak.KeySize)
		}
		k := maliepak.Key{Label: label}
		copy(k.Bytes[:], b)
		keys = append(keys, k)
	}
	return maliepak.NewCatalog(keys...), nil
}

func cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
