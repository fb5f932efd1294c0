package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"testing"
)

// createTestGAT builds a version 1.2 GAT file from cells.
func createTestGAT(width, height uint32, cells []GATCell) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("GRAT")
	buf.WriteByte(2) // minor
	buf.WriteByte(1) // major
	binary.Write(buf, binary.LittleEndian, width)
	binary.Write(buf, binary.LittleEndian, height)

	for i := 0; i < int(width * height); i++ {
		var cell GATCell
		if i < len(cells) {
			cell = cells[i]
		}
		binary.Write(buf, binary.LittleEndian, cell)
	}
	return buf.Bytes()
}

func flatCell(alt float32, typ GATCellType) GATCell {
	return GATCell{Heights: [4]float32{alt, alt, alt, alt}, Type: typ}
}

func mustParse(t *testing.T, data []byte) *GAT {
	t.Helper()
	gat, err := ParseGAT(data)
	if err != nil {
		t.Fatalf("ParseGAT failed: %v", err)
	}
	return gat
}

func TestParseGAT_ValidFile(t *testing.T) {
	gat := mustParse(t, createTestGAT(4, 3, []GATCell{flatCell(-5, GATBlocked)}))

	if gat.Version.Major != 1 || gat.Version.Minor != 2 {
		t.Errorf("expected version 1.2, got %s", gat.Version)
	}
	if gat.Width != 4 || gat.Height != 3 {
		t.Errorf("expected 4x3, got %dx%d", gat.Width, gat.Height)
	}
	if len(gat.Cells) != 12 {
		t.Errorf("expected 12 cells, got %d", len(gat.Cells))
	}
	if c := gat.Cells[0]; c.Type != GATBlocked || c.Heights[3] != -5 {
		t.Errorf("unexpected first cell %+v", c)
	}
	if c := gat.Cells[11]; c.Type != GATWalkable || c.Heights != [4]float32{} {
		t.Errorf("unexpected last cell %+v", c)
	}
}

func TestParseGAT_Errors(t *testing.T) {
	valid := createTestGAT(2, 2, nil)
	badVersion := append([]byte(nil), valid...)
	badVersion[5] = 4
	zeroWidth := createTestGAT(0, 2, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"invalid magic", append([]byte("XXXX"), valid[4:]...), ErrInvalidGATMagic},
		{"truncated header", []byte("GRAT"), ErrTruncatedGATData},
		{"truncated cells", valid[:len(valid)-3], ErrTruncatedGATData},
		{"unsupported version", badVersion, ErrUnsupportedGATVersion},
		{"zero width", zeroWidth, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGAT(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGAT_WaterCells(t *testing.T) {
	tests := []struct {
		name  string
		types []GATCellType
		want  int
	}{
		{"dry", []GATCellType{GATWalkable, GATBlocked, GATSnipeable, GATBlockedSnipe}, 0},
		{"water and shore", []GATCellType{GATWater, GATWalkableWater, GATWalkable, GATWater}, 3},
		{"unknown type is dry", []GATCellType{GATCellType(42), GATWalkable, GATWalkable, GATWater}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := make([]GATCell, len(tt.types))
			for i, typ := range tt.types {
				cells[i] = flatCell(0, typ)
			}
			if got := mustParse(t, createTestGAT(2, 2, cells)).WaterCells(); got != tt.want {
				t.Errorf("WaterCells() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGAT_AltitudeRange(t *testing.T) {
	cells := []GATCell{
		{Heights: [4]float32{-10, 0, 5, -3}},
		flatCell(-20, GATWalkable),
	}
	lo, hi := mustParse(t, createTestGAT(2, 1, cells)).AltitudeRange()
	if lo != -20 || hi != 5 {
		t.Errorf("expected range [-20, 5], got [%v, %v]", lo, hi)
	}
}

func TestGAT_Elevations(t *testing.T) {
	tests := []struct {
		name   string
		width  uint32
		cells  []GATCell
		expect []float32
	}{
		{
			name:   "corner layout",
			width:  1,
			cells:  []GATCell{{Heights: [4]float32{-10, -20, -30, -40}}},
			expect: []float32{30, 40, 10, 20},
		},
		{
			name:   "shared corners average",
			width:  2,
			cells:  []GATCell{flatCell(-10, GATWalkable), flatCell(-20, GATWalkable)},
			expect: []float32{10, 15, 20, 10, 15, 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, createTestGAT(tt.width, 1, tt.cells)).Elevations()
			if len(got) != len(tt.expect) {
				t.Fatalf("expected %d corners, got %d", len(tt.expect), len(got))
			}
			for i := range got {
				if got[i] != tt.expect[i] {
					t.Errorf("corner %d: expected %v, got %v", i, tt.expect[i], got[i])
				}
			}
		})
	}
}

func TestGAT_HeightImage(t *testing.T) {
	gat := mustParse(t, createTestGAT(2, 1, []GATCell{flatCell(-10, GATWalkable), flatCell(-20, GATWalkable)}))

	img, span, err := gat.HeightImage(3)
	if err != nil {
		t.Fatalf("HeightImage failed: %v", err)
	}
	if span != 10 {
		t.Errorf("expected span 10, got %v", span)
	}
	for py := 0; py < 3; py++ {
		for px, want := range []uint16{0, 32768, 65535} {
			if got := img.Gray16At(px, py).Y; got != want {
				t.Errorf("pixel (%d, %d) = %d, want %d", px, py, got, want)
			}
		}
	}

	if got := gat.SuggestedDivisor(span, 3); got != 128 {
		t.Errorf("expected divisor 128, got %d", got)
	}

	if _, _, err := gat.HeightImage(1); err == nil {
		t.Error("expected error for size 1")
	}
}

func TestGAT_HeightImageFlat(t *testing.T) {
	gat := mustParse(t, createTestGAT(2, 2, nil))

	img, span, err := gat.HeightImage(5)
	if err != nil {
		t.Fatalf("HeightImage failed: %v", err)
	}
	if span != 0 {
		t.Errorf("expected zero span, got %v", span)
	}
	for _, b := range img.Pix {
		if b != 0 {
			t.Fatal("flat table should produce a black image")
		}
	}
	if got := gat.SuggestedDivisor(span, 5); got != 1 {
		t.Errorf("expected divisor 1 for a flat table, got %d", got)
	}
}

func TestGAT_SurfaceImage(t *testing.T) {
	cells := []GATCell{flatCell(0, GATWalkable), flatCell(0, GATWater)}
	img := mustParse(t, createTestGAT(2, 1, cells)).SurfaceImage(4)

	want := []color.RGBA{
		CellColors[GATWalkable], CellColors[GATWalkable],
		CellColors[GATWater], CellColors[GATWater],
	}
	for py := 0; py < 4; py++ {
		for px, w := range want {
			if got := img.RGBAAt(px, py); got != w {
				t.Errorf("pixel (%d, %d) = %v, want %v", px, py, got, w)
			}
		}
	}

	unknown := mustParse(t, createTestGAT(1, 1, []GATCell{flatCell(0, GATCellType(42))})).SurfaceImage(2)
	if got := unknown.RGBAAt(0, 0); got != unknownCellColor {
		t.Errorf("unknown type should use the marker color, got %v", got)
	}
}
