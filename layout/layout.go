/*
Package layout translates dictionary geometry between the reference picture
it was authored against and the screen it is drawn on.

Rectangles are (left, top, right, bottom) held in the X, Y, Z and W
components of an mgl64.Vec4. Screen coordinates grow right and down;
normalized device coordinates run from -1 to 1 and grow right and up.
*/
package layout

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Size is a width and height in pixels
type Size struct {
	Width, Height float64
}

func ratio(target, ref float64) float64 {
	if ref == 0 {
		return 1
	}
	return target / ref
}

// ScaleRect rescales r from the reference size to the target size. Each
// axis is scaled independently and nothing is rounded. A zero reference
// dimension leaves that axis unscaled.
func ScaleRect(r mgl64.Vec4, ref, target Size) mgl64.Vec4 {
	sx := ratio(target.Width, ref.Width)
	sy := ratio(target.Height, ref.Height)
	return mgl64.Vec4{r.X() * sx, r.Y() * sy, r.Z() * sx, r.W() * sy}
}

// Dimensions returns the width and height of r rounded to whole pixels
func Dimensions(r mgl64.Vec4) (int, int) {
	return int(math.Round(r.Z() - r.X())), int(math.Round(r.W() - r.Y()))
}

// Midpoint returns the center of r
func Midpoint(r mgl64.Vec4) mgl64.Vec2 {
	return mgl64.Vec2{(r.X() + r.Z()) / 2, (r.Y() + r.W()) / 2}
}

// ToNDC converts a screen point to normalized device coordinates
func ToNDC(p mgl64.Vec2, screen Size) mgl64.Vec2 {
	return mgl64.Vec2{
		(p.X()/screen.Width - 0.5) * 2,
		(0.5 - p.Y()/screen.Height) * 2,
	}
}

// FromNDC converts normalized device coordinates back to a screen point
func FromNDC(p mgl64.Vec2, screen Size) mgl64.Vec2 {
	return mgl64.Vec2{
		(p.X()/2 + 0.5) * screen.Width,
		(0.5 - p.Y()/2) * screen.Height,
	}
}

// Quad returns the corners of r in normalized device coordinates, clockwise
// from the top-left
func Quad(r mgl64.Vec4, screen Size) [4]mgl64.Vec2 {
	return [4]mgl64.Vec2{
		ToNDC(mgl64.Vec2{r.X(), r.Y()}, screen),
		ToNDC(mgl64.Vec2{r.Z(), r.Y()}, screen),
		ToNDC(mgl64.Vec2{r.Z(), r.W()}, screen),
		ToNDC(mgl64.Vec2{r.X(), r.W()}, screen),
	}
}
