package palette

import (
	"image"
	"image/color"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
)

// Luminance weights used when comparing colors
const (
	weightRed   = 299
	weightGreen = 587
	weightBlue  = 114
)

func absDiff(x, y uint8) int {
	if x > y {
		return int(x - y)
	}
	return int(y - x)
}

// Index returns the palette index closest to c. Fully transparent colors map
// to the transparent entry without searching. Otherwise every entry is
// compared using luminance weighted absolute channel differences and the
// first entry with the smallest distance wins.
func (p *Palette) Index(c color.Color) (uint8, error) {
	if !p.Loaded() {
		return 0, ErrNotLoaded
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return Transparent, nil
	}
	return p.nearest(n.R, n.G, n.B), nil
}

func (p *Palette) nearest(r, g, b uint8) uint8 {
	var best uint8
	bestSum := math.MaxInt32
	for i, c := range p.table {
		sum := weightRed*absDiff(r, c.R) + weightGreen*absDiff(g, c.G) + weightBlue*absDiff(b, c.B)
		if sum == 0 {
			return uint8(i)
		}
		if sum < bestSum {
			best, bestSum = uint8(i), sum
		}
	}
	return best
}

// Generate builds a loaded palette from the colors used in m. Entry 0 is
// the transparent color, the remaining entries are filled by median cut
// quantization and any left over are black.
func Generate(m image.Image) *Palette {
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, Colors-1), m)

	b := make([]byte, Size)
	for i, c := range cp {
		if i >= Colors-1 {
			break
		}
		r, g, bl, _ := c.RGBA()
		j := (i + 1) * 3
		b[j], b[j+1], b[j+2] = byte(r>>8), byte(g>>8), byte(bl>>8)
	}

	p := New()
	p.set(b)
	return p
}
