package formats

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// GATCellUnits is the world size of one altitude cell.
const GATCellUnits = 5

// CellColors maps cell types to the surface texture color.
var CellColors = map[GATCellType]color.RGBA{
	GATWalkable:      {120, 170, 90, 255},
	GATBlocked:       {90, 90, 90, 255},
	GATWater:         {60, 110, 190, 255},
	GATWalkableWater: {110, 160, 200, 255},
	GATSnipeable:     {150, 120, 80, 255},
	GATBlockedSnipe:  {110, 90, 70, 255},
}

// unknownCellColor marks cell types missing from CellColors.
var unknownCellColor = color.RGBA{255, 0, 255, 255}

// Elevations returns the (Width+1) x (Height+1) corner lattice of the table
// as elevations, positive up. Each corner averages the altitude of every cell
// that touches it. Rows run top of the map first.
func (g *GAT) Elevations() []float32 {
	cols, rows := g.Width+1, g.Height+1
	sum := make([]float32, cols*rows)
	count := make([]uint8, cols*rows)

	add := func(vx, vy int, alt float32) {
		i := (g.Height-vy)*cols + vx
		sum[i] -= alt
		count[i]++
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			h := g.Cells[y*g.Width+x].Heights
			add(x, y, h[0])
			add(x+1, y, h[1])
			add(x, y+1, h[2])
			add(x+1, y+1, h[3])
		}
	}

	for i := range sum {
		sum[i] /= float32(count[i])
	}
	return sum
}

// HeightImage resamples the corner lattice onto a size x size grid and
// normalizes it to the full 16-bit range. It returns the elevation span the
// range covers so callers can pick a height divisor.
func (g *GAT) HeightImage(size int) (*image.Gray16, float32, error) {
	if size < 2 {
		return nil, 0, fmt.Errorf("height image size %d", size)
	}

	elev := g.Elevations()
	lo, hi := elev[0], elev[0]
	for _, e := range elev {
		lo = min(lo, e)
		hi = max(hi, e)
	}
	span := hi - lo

	cols, rows := g.Width+1, g.Height+1
	at := func(x, y int) float32 { return elev[y*cols+x] }

	img := image.NewGray16(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			e := bilinear(at, cols, rows,
				float32(px)*float32(cols-1)/float32(size-1),
				float32(py)*float32(rows-1)/float32(size-1))
			var v uint16
			if span > 0 {
				v = uint16(math.Round(float64((e - lo) / span * 65535)))
			}
			img.SetGray16(px, py, color.Gray16{Y: v})
		}
	}
	return img, span, nil
}

func bilinear(at func(x, y int) float32, cols, rows int, u, v float32) float32 {
	x0 := min(int(u), cols-2)
	y0 := min(int(v), rows-2)
	fx, fy := u-float32(x0), v-float32(y0)
	top := at(x0, y0)*(1-fx) + at(x0+1, y0)*fx
	bottom := at(x0, y0+1)*(1-fx) + at(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}

// SurfaceImage paints each cell's type color onto a size x size texture,
// top of the map first.
func (g *GAT) SurfaceImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		cy := g.Height - 1 - min(py*g.Height/size, g.Height-1)
		for px := 0; px < size; px++ {
			cx := min(px*g.Width/size, g.Width-1)
			c, ok := CellColors[g.Cells[cy*g.Width+cx].Type]
			if !ok {
				c = unknownCellColor
			}
			img.SetRGBA(px, py, c)
		}
	}
	return img
}

// SuggestedDivisor returns the height divisor that keeps the table's
// proportions when its span was normalized to the 0..255 sample scale and
// the map was resampled to size vertices per side.
func (g *GAT) SuggestedDivisor(span float32, size int) int {
	if span <= 0 {
		return 1
	}
	// World units per grid cell after resampling.
	unit := float32(GATCellUnits*max(g.Width, g.Height)) / float32(size-1)
	return max(1, int(math.Round(float64(255*unit/span))))
}
