package ioreads

import (
	"context"
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// closeFunc closes whatever resources openMaybeCompressed opened, mirroring
// the defer infile.Close(ctx) cleanup pattern in LoadFa (pileup/common.go).
type closeFunc func(ctx context.Context) error

// openMaybeCompressed opens path through grailbio/base/file (transparently
// handling local paths and object-store URIs) and wraps the result in a
// gzip reader when fileio.DetermineType reports Gzip, mirroring LoadFa's
// file.Open/gzip.NewReader pairing in pileup/common.go.
func openMaybeCompressed(ctx context.Context, path string) (io.Reader, closeFunc, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	r := f.Reader(ctx)
	if fileio.DetermineType(path) != fileio.Gzip {
		return r, f.Close, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		f.Close(ctx)
		return nil, nil, err
	}
	return gz, func(ctx context.Context) error {
		gzErr := gz.Close()
		closeErr := f.Close(ctx)
		if gzErr != nil {
			return gzErr
		}
		return closeErr
	}, nil
}
