// Package texture decodes height and color images from disk.
package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeTrueColor    = 2  // Uncompressed true-color
	TGATypeGray         = 3  // Uncompressed grayscale
	TGATypeTrueColorRLE = 10 // RLE compressed true-color
	TGATypeGrayRLE      = 11 // RLE compressed grayscale
)

// DecodeTGA decodes a TGA image.
// Supports uncompressed and RLE true-color (24/32 bpp) and grayscale (8 bpp)
// images. Grayscale images decode to *image.Gray so height samples keep their
// exact byte values; true-color images decode to *image.RGBA.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}

	gray := imageType == TGATypeGray || imageType == TGATypeGrayRLE
	rle := imageType == TGATypeTrueColorRLE || imageType == TGATypeGrayRLE
	switch {
	case gray && bpp != 8:
		return nil, fmt.Errorf("unsupported grayscale TGA bit depth %d (only 8 supported)", bpp)
	case !gray && imageType != TGATypeTrueColor && imageType != TGATypeTrueColorRLE:
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("unsupported TGA bit depth %d (only 24/32 supported)", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		width:       width,
		height:      height,
		bytesPerPx:  bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}
	if gray {
		img := image.NewGray(image.Rect(0, 0, width, height))
		d.set = func(x, y int, px []byte) { img.SetGray(x, y, color.Gray{Y: px[0]}) }
		d.out = img
	} else {
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		d.set = func(x, y int, px []byte) {
			a := uint8(255)
			if len(px) == 4 {
				a = px[3]
			}
			img.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
		}
		d.out = img
	}

	pixels := data[offset:]
	if rle {
		d.decodeRLE(pixels)
		return d.out, nil
	}
	if err := d.decodeRaw(pixels); err != nil {
		return nil, err
	}
	return d.out, nil
}

type tgaDecoder struct {
	width, height int
	bytesPerPx    int
	topToBottom   bool
	set           func(x, y int, px []byte)
	out           image.Image
}

// put stores the n-th pixel in file order, flipping rows for bottom-up files.
func (d *tgaDecoder) put(n int, px []byte) {
	x := n % d.width
	y := n / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.set(x, y, px)
}

func (d *tgaDecoder) decodeRaw(pixels []byte) error {
	count := d.width * d.height
	if len(pixels) < count*d.bytesPerPx {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for n := 0; n < count; n++ {
		i := n * d.bytesPerPx
		d.put(n, pixels[i:i+d.bytesPerPx])
	}
	return nil
}

// decodeRLE decodes as many packets as the data holds; a short file leaves
// the remaining pixels zeroed.
func (d *tgaDecoder) decodeRLE(pixels []byte) {
	count := d.width * d.height
	n, i := 0, 0
	for n < count && i < len(pixels) {
		packet := pixels[i]
		i++
		run := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if i+d.bytesPerPx > len(pixels) {
				return
			}
			px := pixels[i : i+d.bytesPerPx]
			i += d.bytesPerPx
			for k := 0; k < run && n < count; k++ {
				d.put(n, px)
				n++
			}
			continue
		}

		for k := 0; k < run && n < count; k++ {
			if i+d.bytesPerPx > len(pixels) {
				return
			}
			d.put(n, pixels[i:i+d.bytesPerPx])
			i += d.bytesPerPx
			n++
		}
	}
}
