// Package view provides a memory-mapped, read-only random-access window
// over an archive file. Multiple entries derived from the same archive
// share one underlying mapping; reads are absolute-offset and safe to
// issue concurrently from multiple goroutines since no mutable cursor is
// shared between calls (compare io.ReaderAt, whose contract this package
// deliberately narrows to "read-only, offset-addressed, never partially
// fails except at EOF").
package view

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// View is a read-only, absolute-offset window over a file's bytes.
type View struct {
	data []byte
	m    mmap.MMap // non-nil only for the owning (root) View
	f    *os.File  // non-nil only for the owning (root) View
}

// Open memory-maps name for read-only access and returns a View over the
// whole file. The returned View must be closed with Close.
func Open(name string) (*View, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "view: open %q", name)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "view: stat %q", name)
	}

	if fi.Size() == 0 {
		// mmap.Map refuses zero-length mappings; an empty archive is never
		// valid but callers should see a short read, not a panic.
		f.Close()
		return &View{data: nil}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "view: mmap %q", name)
	}

	return &View{data: []byte(m), m: m, f: f}, nil
}

// FromBytes wraps an in-memory byte slice as a View, useful for tests and
// for callers that already hold the archive's bytes.
func FromBytes(b []byte) *View {
	return &View{data: b}
}

// Len returns the total number of bytes in the view.
func (v *View) Len() int64 { return int64(len(v.data)) }

// ReadAt fills dst with bytes starting at absolute offset off, returning
// the number of bytes copied. Reads past the end of the view are clamped:
// a short read at EOF is not an error, matching io.ReaderAt's exception
// for end-of-file. A negative offset or an offset past the end returns 0
// bytes copied and no error; "short reads allowed only at end of file" is
// the caller's responsibility to detect via the returned count.
func (v *View) ReadAt(dst []byte, off int64) int {
	if off < 0 || off >= int64(len(v.data)) {
		return 0
	}
	n := copy(dst, v.data[off:])
	return n
}

// Subrange returns a new View over the byte range [off, off+n) of v. The
// returned view shares the same backing storage; absolute offsets passed
// to its ReadAt are relative to the subrange's own start, not v's.
func (v *View) Subrange(off, n int64) *View {
	if off < 0 {
		off = 0
	}
	if off > int64(len(v.data)) {
		off = int64(len(v.data))
	}
	end := off + n
	if end > int64(len(v.data)) {
		end = int64(len(v.data))
	}
	if end < off {
		end = off
	}
	return &View{data: v.data[off:end]}
}

// Close unmaps the view's backing file, if any. Subviews created with
// Subrange do not own the mapping and Close on them is a no-op; closing
// the owning View invalidates every entry derived from it, per the
// archive's resource model.
func (v *View) Close() error {
	var err error
	if v.m != nil {
		err = v.m.Unmap()
	}
	if v.f != nil {
		if cerr := v.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
