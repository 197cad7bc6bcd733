package validation

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
)

const niftiHeaderSize = 348

// CheckNIfTI opens a gzipped NIfTI-1 volume and validates its header: the
// declared header size must be 348 in either byte order, or the magic bytes
// must identify a NIfTI-1 file. This catches truncation and corruption without
// decoding voxel data.
func CheckNIfTI(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("opening: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("reading gzip header: %w", err)
	}
	defer zr.Close()

	header := make([]byte, niftiHeaderSize)
	if _, err := io.ReadFull(zr, header); err != nil {
		return fmt.Errorf("reading NIfTI header: %w", err)
	}

	if binary.LittleEndian.Uint32(header[:4]) == niftiHeaderSize ||
		binary.BigEndian.Uint32(header[:4]) == niftiHeaderSize {
		return nil
	}
	switch string(header[344:348]) {
	case "n+1\x00", "ni1\x00":
		return nil
	}
	return fmt.Errorf("not a NIfTI-1 header")
}
