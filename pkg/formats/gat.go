package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// GAT format errors.
var (
	ErrInvalidGATMagic       = errors.New("invalid GAT magic: expected 'GRAT'")
	ErrUnsupportedGATVersion = errors.New("unsupported GAT version")
	ErrTruncatedGATData      = errors.New("truncated GAT data")
)

// MaxGATDimension bounds the cells per side accepted by ParseGAT.
const MaxGATDimension = 4096

// GATVersion represents the GAT file version.
type GATVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v GATVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// GATCellType is the surface kind of an altitude cell.
type GATCellType uint32

// Cell type constants.
const (
	GATWalkable      GATCellType = 0
	GATBlocked       GATCellType = 1
	GATWater         GATCellType = 2
	GATWalkableWater GATCellType = 3 // Shore
	GATSnipeable     GATCellType = 4 // Cliff
	GATBlockedSnipe  GATCellType = 5
)

// IsWater reports whether the cell is under water.
func (t GATCellType) IsWater() bool {
	return t == GATWater || t == GATWalkableWater
}

// GATCell is one altitude cell.
type GATCell struct {
	// Corner altitudes: [0] bottom-left, [1] bottom-right, [2] top-left,
	// [3] top-right. Altitudes grow downward; higher ground is more negative.
	Heights [4]float32
	Type    GATCellType
}

// GAT is a parsed ground altitude table: a Width x Height grid of cells,
// row-major with y growing toward the top of the map.
type GAT struct {
	Version GATVersion
	Width   int
	Height  int
	Cells   []GATCell
}

const (
	gatHeaderSize = 14 // "GRAT", minor, major, width, height
	gatCellSize   = 20 // four float32 altitudes and a uint32 type
)

// ParseGAT parses a GAT file from raw bytes.
func ParseGAT(data []byte) (*GAT, error) {
	if len(data) < gatHeaderSize {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedGATData)
	}
	if string(data[:4]) != "GRAT" {
		return nil, ErrInvalidGATMagic
	}

	version := GATVersion{Major: data[5], Minor: data[4]}
	// The cell layout is the same from 1.x through 3.x.
	if version.Major < 1 || version.Major > 3 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGATVersion, version)
	}

	width := binary.LittleEndian.Uint32(data[6:])
	height := binary.LittleEndian.Uint32(data[10:])
	if width == 0 || height == 0 || width > MaxGATDimension || height > MaxGATDimension {
		return nil, fmt.Errorf("invalid GAT dimensions: %dx%d", width, height)
	}

	gat := &GAT{
		Version: version,
		Width:   int(width),
		Height:  int(height),
		Cells:   make([]GATCell, int(width)*int(height)),
	}
	body := data[gatHeaderSize:]
	if len(body) < len(gat.Cells)*gatCellSize {
		return nil, fmt.Errorf("%w: reading %d cells", ErrTruncatedGATData, len(gat.Cells))
	}
	for i := range gat.Cells {
		rec := body[i*gatCellSize : (i+1)*gatCellSize]
		cell := &gat.Cells[i]
		for k := range cell.Heights {
			cell.Heights[k] = math.Float32frombits(binary.LittleEndian.Uint32(rec[4*k:]))
		}
		cell.Type = GATCellType(binary.LittleEndian.Uint32(rec[16:]))
	}
	return gat, nil
}

// ParseGATFile parses a GAT file from disk.
func ParseGATFile(path string) (*GAT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading GAT file: %w", err)
	}
	return ParseGAT(data)
}

// WaterCells returns the number of cells under water.
func (g *GAT) WaterCells() int {
	n := 0
	for _, cell := range g.Cells {
		if cell.Type.IsWater() {
			n++
		}
	}
	return n
}

// AltitudeRange returns the minimum and maximum corner altitude.
func (g *GAT) AltitudeRange() (lo, hi float32) {
	if len(g.Cells) == 0 {
		return 0, 0
	}
	lo, hi = g.Cells[0].Heights[0], g.Cells[0].Heights[0]
	for _, cell := range g.Cells {
		for _, h := range cell.Heights {
			lo = min(lo, h)
			hi = max(hi, h)
		}
	}
	return lo, hi
}
