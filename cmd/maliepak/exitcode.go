package main

import (
	"errors"
	"os"

	"github.com/malie-archive/maliepak"
)

// Exit codes (spec.md section 6).
const (
	exitSuccess         = 0
	exitUsageError      = 1
	exitInputNotFound   = 2
	exitNoMatchingKey   = 3
	exitStructuralError = 4
	exitSidecarMismatch = 5
)

// exitCodeFor classifies err against the package's sentinel error
// taxonomy (spec.md section 7) to pick a process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, os.ErrNotExist), errors.Is(err, maliepak.ErrInputNotFound):
		return exitInputNotFound
	case errors.Is(err, maliepak.ErrNoMatchingKey):
		return exitNoMatchingKey
	case errors.Is(err, maliepak.ErrMalformedArchive), errors.Is(err, maliepak.ErrTruncatedRead),
		errors.Is(err, maliepak.ErrNameEncoding), errors.Is(err, maliepak.ErrCorruptBitstream),
		errors.Is(err, maliepak.ErrUnsupportedFeature):
		return exitStructuralError
	case errors.Is(err, maliepak.ErrSidecarMismatch):
		return exitSidecarMismatch
	default:
		return exitUsageError
	}
}
