package ifedit

import (
	"fmt"

	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/layout"
	"github.com/go-gl/mathgl/mgl64"
)

// Placement is where a rectangle binding lands on a screen
type Placement struct {
	// Rect is the scaled rectangle in screen pixels
	Rect          mgl64.Vec4
	Width, Height int
	Midpoint      mgl64.Vec2
	// Quad holds the corners in normalized device coordinates, clockwise
	// from the top-left
	Quad [4]mgl64.Vec2
}

// referenceSize returns the size of the first frame of the main picture
// that owns k. The picture is resolved in mode first and then in the common
// scope. A zero size is returned if there is no such picture or it has no
// frames, which leaves the rectangle unscaled.
func (e *Editor) referenceSize(k *feature.Key, mode feature.Mode, res feature.Resolution) (layout.Size, error) {
	main := k.Main()
	if main == nil {
		return layout.Size{}, nil
	}

	v, ok := e.dict.Resolve(main, mode, res)
	if !ok && mode != feature.Base {
		v, ok = e.dict.Resolve(main, feature.Base, feature.Resolution{})
	}
	if !ok {
		e.logger.Debugf("No picture bound to \"%s\"", main)
		return layout.Size{}, nil
	}

	c, err := e.Frames(v.(feature.ImageRef))
	if err != nil {
		return layout.Size{}, err
	}
	if len(c.Frames) == 0 {
		e.logger.Debugf("Picture \"%s\" has no frames", v)
		return layout.Size{}, nil
	}

	f := c.Frames[0]
	return layout.Size{Width: float64(f.Width), Height: float64(f.Height)}, nil
}

// Placement resolves the rectangle bound to k and scales it from its main
// picture onto a screen of the given resolution. The boolean result is false
// if nothing is bound to k.
func (e *Editor) Placement(k *feature.Key, mode feature.Mode, screen feature.Resolution) (*Placement, bool, error) {
	if k.Kind() != feature.KindRectangle {
		return nil, false, fmt.Errorf("%w: %s is not a rectangle", feature.ErrWrongKind, k)
	}

	v, ok := e.dict.Resolve(k, mode, screen)
	if !ok {
		return nil, false, nil
	}

	ref, err := e.referenceSize(k, mode, screen)
	if err != nil {
		return nil, false, err
	}

	target := layout.Size{Width: float64(screen.Width), Height: float64(screen.Height)}
	r := layout.ScaleRect(v.(feature.Rectangle).Vec4(), ref, target)
	w, h := layout.Dimensions(r)

	return &Placement{
		Rect:     r,
		Width:    w,
		Height:   h,
		Midpoint: layout.Midpoint(r),
		Quad:     layout.Quad(r, target),
	}, true, nil
}
