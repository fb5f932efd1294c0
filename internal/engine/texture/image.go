package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
)

// Open reads and decodes an image file. TGA files are recognized by
// extension since the format has no magic number; everything else goes
// through the registered image decoders.
func Open(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode decodes image bytes. ext is the file extension hint, with or
// without the leading dot.
func Decode(data []byte, ext string) (image.Image, error) {
	if strings.EqualFold(strings.TrimPrefix(ext, "."), "tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding TGA: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
// An *image.RGBA that already starts at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// RedChannel returns the red channel of every pixel as a row-major grid,
// keeping 16-bit precision on a 0..255 scale: 8-bit images yield their exact
// byte values.
func RedChannel(img image.Image) []float32 {
	b := img.Bounds()
	out := make([]float32, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r := redOf(img.At(x, y))
			out = append(out, float32(r)/257)
		}
	}
	return out
}

func redOf(c color.Color) uint32 {
	// Gray and RGBA cover heightmaps in practice; skip the interface round trip.
	switch v := c.(type) {
	case color.Gray:
		return uint32(v.Y) * 257
	case color.Gray16:
		return uint32(v.Y)
	case color.RGBA:
		if v.A == 255 {
			return uint32(v.R) * 257
		}
	}
	r, _, _, _ := c.RGBA()
	return r
}

// IsPowerOfTwoPlusOne reports whether n == 2^k + 1 for some k >= 0.
func IsPowerOfTwoPlusOne(n int) bool {
	m := n - 1
	return m > 0 && m&(m-1) == 0
}
