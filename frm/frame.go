package frm

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/ifedit/palette"
)

// ErrOutOfBounds is returned when accessing a pixel outside of a frame
var ErrOutOfBounds = errors.New("frm: pixel out of bounds")

// Frame is a single palette indexed image. Pix holds Width * Height indices
// in row-major order.
type Frame struct {
	Width, Height    int
	OffsetX, OffsetY int
	Pix              []uint8
}

// NewFrame returns a frame of the given dimensions with every pixel set to
// the transparent index
func NewFrame(width, height, offsetX, offsetY int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:   width,
		Height:  height,
		OffsetX: offsetX,
		OffsetY: offsetY,
		Pix:     make([]uint8, width*height),
	}
}

// NewFrameFromImage converts m to a frame by mapping every pixel to its
// nearest entry in p
func NewFrameFromImage(m image.Image, offsetX, offsetY int, p *palette.Palette) (*Frame, error) {
	if !p.Loaded() {
		return nil, palette.ErrNotLoaded
	}

	b := m.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), offsetX, offsetY)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			idx, err := p.Index(m.At(x, y))
			if err != nil {
				return nil, err
			}
			f.Pix[i] = idx
			i++
		}
	}

	return f, nil
}

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// ColorIndexAt returns the palette index at (x, y)
func (f *Frame) ColorIndexAt(x, y int) (uint8, error) {
	if !f.inBounds(x, y) {
		return 0, ErrOutOfBounds
	}
	return f.Pix[y*f.Width+x], nil
}

// SetColorIndex sets the palette index at (x, y)
func (f *Frame) SetColorIndex(x, y int, index uint8) error {
	if !f.inBounds(x, y) {
		return ErrOutOfBounds
	}
	f.Pix[y*f.Width+x] = index
	return nil
}

// Bounds returns the frame rectangle with its top-left corner at (0, 0)
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// Image returns a true color copy of the frame using the colors in p
func (f *Frame) Image(p *palette.Palette) (*image.NRGBA, error) {
	if !p.Loaded() {
		return nil, palette.ErrNotLoaded
	}

	m := image.NewNRGBA(f.Bounds())
	colors := p.Colors()
	for i, idx := range f.Pix {
		c := colors[idx].(color.NRGBA)
		j := i * 4
		m.Pix[j+0] = c.R
		m.Pix[j+1] = c.G
		m.Pix[j+2] = c.B
		m.Pix[j+3] = c.A
	}

	return m, nil
}

func (f *Frame) encodedSize() int {
	return frameHeaderSize + f.Width*f.Height
}
