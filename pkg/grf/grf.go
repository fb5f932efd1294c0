// Package grf reads Ragnarok Online GRF archives so map files can be pulled
// straight out of the game data.
package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Faultbox/midgard-terrain/pkg/encoding"
)

const (
	grfMagic = "Master of Magic"

	// HeaderSize is the size of the archive header. Table and entry offsets
	// are relative to its end.
	HeaderSize = 46

	// Version is the only archive version supported.
	Version = 0x200

	// entryFixedSize follows each NUL-terminated name in the file table.
	entryFixedSize = 17
)

// Entry flags.
const (
	FlagFile      uint8 = 0x01
	FlagEncrypted uint8 = 0x02
)

// Archive errors.
var (
	ErrInvalidMagic = errors.New("invalid GRF magic")
	ErrNotFound     = errors.New("file not found in archive")
	ErrEncrypted    = errors.New("encrypted entries are not supported")
)

// Archive represents an opened GRF archive.
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	header  Header
	entries map[string]*Entry
}

// Header contains GRF file header information.
type Header struct {
	Magic         [15]byte
	EncryptionKey [15]byte
	TableOffset   uint32
	Seed          uint32
	FileCount     uint32
	Version       uint32
}

// Entry describes one file in the archive.
type Entry struct {
	Name             string // UTF-8, as stored
	CompressedSize   uint32
	AlignedSize      uint32
	UncompressedSize uint32
	Flags            uint8
	Offset           uint32
}

// Open opens a GRF archive for reading.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewReader reads the header and file table of an archive held by r.
func NewReader(r io.ReaderAt) (*Archive, error) {
	a := &Archive{r: r, entries: make(map[string]*Entry)}
	if err := a.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := a.readFileTable(); err != nil {
		return nil, fmt.Errorf("reading file table: %w", err)
	}
	return a, nil
}

// Close closes the underlying file when the archive was opened by path.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readHeader() error {
	sr := io.NewSectionReader(a.r, 0, HeaderSize)
	if err := binary.Read(sr, binary.LittleEndian, &a.header); err != nil {
		return err
	}
	if string(a.header.Magic[:]) != grfMagic {
		return ErrInvalidMagic
	}
	if a.header.Version != Version {
		return fmt.Errorf("unsupported GRF version: 0x%x", a.header.Version)
	}
	return nil
}

func (a *Archive) readFileTable() error {
	base := int64(HeaderSize) + int64(a.header.TableOffset)

	var sizes [2]uint32
	if err := binary.Read(io.NewSectionReader(a.r, base, 8), binary.LittleEndian, &sizes); err != nil {
		return fmt.Errorf("table sizes: %w", err)
	}
	compressedSize, uncompressedSize := sizes[0], sizes[1]

	compressed := make([]byte, compressedSize)
	if err := readFull(a.r, compressed, base+8); err != nil {
		return fmt.Errorf("table data: %w", err)
	}
	table, err := inflate(compressed, uncompressedSize)
	if err != nil {
		return fmt.Errorf("table data: %w", err)
	}

	count := int64(a.header.FileCount) - int64(a.header.Seed) - 7
	offset := 0
	for rangeIdx := int64(0); rangeIdx < max(count, 0); rangeIdx++ {
		nameEnd := bytes.IndexByte(table[offset:], 0)
		if nameEnd < 0 || offset+nameEnd+1+entryFixedSize > len(table) {
			return fmt.Errorf("file table truncated at byte %d", offset)
		}
		name := encoding.EUCKRToUTF8(table[offset : offset+nameEnd])
		fixed := table[offset+nameEnd+1:]
		offset += nameEnd + 1 + entryFixedSize

		e := &Entry{
			Name:             name,
			CompressedSize:   binary.LittleEndian.Uint32(fixed[0:]),
			AlignedSize:      binary.LittleEndian.Uint32(fixed[4:]),
			UncompressedSize: binary.LittleEndian.Uint32(fixed[8:]),
			Flags:            fixed[12],
			Offset:           binary.LittleEndian.Uint32(fixed[13:]),
		}
		// Directory entries carry no data.
		if e.Flags&FlagFile != 0 {
			a.entries[encoding.NormalizePath(name)] = e
		}
	}
	return nil
}

// List returns every file path in the archive, sorted.
func (a *Archive) List() []string {
	names := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether the archive holds path. Lookups ignore case and
// accept either slash.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[encoding.NormalizePath(path)]
	return ok
}

// Read returns the uncompressed contents of path.
func (a *Archive) Read(path string) ([]byte, error) {
	e, ok := a.entries[encoding.NormalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if e.Flags&FlagEncrypted != 0 {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
	}

	data := make([]byte, e.CompressedSize)
	if err := readFull(a.r, data, int64(HeaderSize)+int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if e.CompressedSize == e.UncompressedSize {
		return data, nil
	}
	out, err := inflate(data, e.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("inflating %s: %w", path, err)
	}
	return out, nil
}

// readFull fills p from r at off. ReaderAt may report io.EOF alongside a
// complete read at the end of the input.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func inflate(data []byte, size uint32) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, err
	}
	return out, nil
}
