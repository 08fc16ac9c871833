/*
Package palette implements the 256 color table shared by indexed frame images.

A palette resource is exactly 768 bytes: 256 red, green, blue triplets with no
header. Entry 0 is the transparent color and is always given an alpha of zero
regardless of its stored RGB value; every other entry is fully opaque.

A Palette is not safe for concurrent use while it is being loaded or reset.
Once loaded it may be read from any number of goroutines.
*/
package palette

import (
	"errors"
	"image/color"
	"io"
	"io/fs"
)

const (
	// Colors is the number of entries in a palette
	Colors = 256

	// Size is the size in bytes of a palette resource
	Size = Colors * 3

	// Transparent is the index of the transparent entry
	Transparent = 0
)

var (
	// ErrNotLoaded is returned by any operation that needs color data from
	// a palette that has not been loaded
	ErrNotLoaded = errors.New("palette: not loaded")

	errNotEnough = errors.New("palette: not enough palette data")
)

// Palette is a 256 entry color table. The zero value is an unloaded palette.
type Palette struct {
	table  *[Colors]color.NRGBA
	colors color.Palette
	rgba   []byte
}

// New returns an unloaded palette
func New() *Palette {
	return &Palette{}
}

// Open returns a palette loaded from the named resource in fsys. The palette
// is always returned, left unloaded if the resource is missing, unreadable or
// short. Any error from Load is passed back for the caller to report.
func Open(fsys fs.FS, name string) (*Palette, error) {
	p := New()
	return p, p.Load(fsys, name)
}

// Load replaces the contents of the palette with the first Size bytes of the
// named resource in fsys. If the resource does not exist the palette is left
// unloaded and no error is returned. If it cannot be read or is too short the
// palette is left unloaded and the error is returned.
func (p *Palette) Load(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		p.Reset()
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	var b [Size]byte
	if _, err := io.ReadFull(f, b[:]); err != nil {
		p.Reset()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	p.set(b[:])

	return nil
}

// UnmarshalBinary loads the palette from the first Size bytes of b
func (p *Palette) UnmarshalBinary(b []byte) error {
	if len(b) < Size {
		p.Reset()
		return errNotEnough
	}
	p.set(b[:Size])
	return nil
}

// MarshalBinary encodes the palette as a Size byte resource
func (p *Palette) MarshalBinary() ([]byte, error) {
	if !p.Loaded() {
		return nil, ErrNotLoaded
	}
	b := make([]byte, 0, Size)
	for _, c := range p.table {
		b = append(b, c.R, c.G, c.B)
	}
	return b, nil
}

// Build the new table completely before swapping it in
func (p *Palette) set(b []byte) {
	table := new([Colors]color.NRGBA)
	colors := make(color.Palette, Colors)
	rgba := make([]byte, 0, Colors*4)

	for i := range table {
		c := color.NRGBA{b[i*3], b[i*3+1], b[i*3+2], 0xff}
		if i == Transparent {
			c.A = 0
		}
		table[i] = c
		colors[i] = c
		rgba = append(rgba, c.R, c.G, c.B, c.A)
	}

	p.table, p.colors, p.rgba = table, colors, rgba
}

// Reset returns the palette to the unloaded state
func (p *Palette) Reset() {
	p.table, p.colors, p.rgba = nil, nil, nil
}

// Loaded reports whether the palette holds a full color table
func (p *Palette) Loaded() bool {
	return p != nil && p.table != nil
}

// Colors returns the color table, or nil if the palette is not loaded. The
// returned slice must not be modified.
func (p *Palette) Colors() color.Palette {
	if !p.Loaded() {
		return nil
	}
	return p.colors
}

// RGBA returns the color table as a flat buffer of 4 bytes per entry, or nil
// if the palette is not loaded. The returned slice must not be modified.
func (p *Palette) RGBA() []byte {
	if !p.Loaded() {
		return nil
	}
	return p.rgba
}

// At returns the color for index i
func (p *Palette) At(i uint8) (color.NRGBA, error) {
	if !p.Loaded() {
		return color.NRGBA{}, ErrNotLoaded
	}
	return p.table[i], nil
}
