package frm

import (
	"errors"
	"image"
	"math"

	"github.com/bodgit/ifedit/palette"
)

var errNoDirection = errors.New("frm: no such direction")

// Container is a decoded animation. Frames are stored flat; the first
// FramesPerDirection frames belong to direction 0, the next to direction 1
// and so on.
type Container struct {
	Version            uint32
	FPS                uint16
	ActionFrame        uint16
	FramesPerDirection uint16
	ShiftX             [Directions]int16
	ShiftY             [Directions]int16

	// Offsets and FrameSize are trusted when decoding and recomputed when
	// encoding, see Layout
	Offsets   [Directions]uint32
	FrameSize uint32

	Frames []*Frame
}

// Options controls how images are converted into a container. Offsets, if
// set, gives the offset of each frame in turn; frames without an entry use
// Offset.
type Options struct {
	Version            uint32
	FPS                uint16
	ActionFrame        uint16
	FramesPerDirection int
	ShiftX             [Directions]int16
	ShiftY             [Directions]int16
	Offsets            []image.Point
	Offset             image.Point
}

// New converts images into a container, mapping each pixel to its nearest
// entry in p. If FramesPerDirection is zero all images form a single
// direction. A zero Version is replaced with the default Version.
func New(images []image.Image, p *palette.Palette, opts Options) (*Container, error) {
	fpd := opts.FramesPerDirection
	if fpd <= 0 {
		fpd = len(images)
	}
	if fpd > math.MaxUint16 {
		return nil, errTooManyDirs
	}
	if fpd > 0 && len(images) > fpd*Directions {
		return nil, errTooManyDirs
	}

	version := opts.Version
	if version == 0 {
		version = Version
	}

	c := &Container{
		Version:            version,
		FPS:                opts.FPS,
		ActionFrame:        opts.ActionFrame,
		FramesPerDirection: uint16(fpd),
		ShiftX:             opts.ShiftX,
		ShiftY:             opts.ShiftY,
		Frames:             make([]*Frame, 0, len(images)),
	}

	for i, m := range images {
		offset := opts.Offset
		if i < len(opts.Offsets) {
			offset = opts.Offsets[i]
		}
		f, err := NewFrameFromImage(m, offset.X, offset.Y, p)
		if err != nil {
			return nil, err
		}
		c.Frames = append(c.Frames, f)
	}

	c.Layout()

	return c, nil
}

// NewUniform converts images into a container where every frame shares the
// same offset
func NewUniform(images []image.Image, p *palette.Palette, fps uint16, framesPerDirection int, offset image.Point) (*Container, error) {
	return New(images, p, Options{
		FPS:                fps,
		FramesPerDirection: framesPerDirection,
		Offset:             offset,
	})
}

func (c *Container) layout() ([Directions]uint32, uint32) {
	var offsets [Directions]uint32
	var size uint32

	fpd := int(c.FramesPerDirection)
	for i, f := range c.Frames {
		if fpd > 0 && i%fpd == 0 && i/fpd < Directions {
			offsets[i/fpd] = size
		}
		size += uint32(f.encodedSize())
	}

	return offsets, size
}

// Layout recomputes the direction offset table and the frame data size from
// the current frames
func (c *Container) Layout() {
	c.Offsets, c.FrameSize = c.layout()
}

// A zero frames per direction count puts every frame in one direction
func (c *Container) framesPerDirection() int {
	if c.FramesPerDirection == 0 {
		return len(c.Frames)
	}
	return int(c.FramesPerDirection)
}

// Directions returns the number of directions that hold at least one frame
func (c *Container) Directions() int {
	fpd := c.framesPerDirection()
	if len(c.Frames) == 0 {
		return 0
	}
	n := (len(c.Frames) + fpd - 1) / fpd
	if n > Directions {
		n = Directions
	}
	return n
}

// Direction returns the frames of direction d, located through the direction
// offset table
func (c *Container) Direction(d int) ([]*Frame, error) {
	if d < 0 || d >= c.Directions() {
		return nil, errNoDirection
	}

	want := c.Offsets[d]

	var offset uint32
	for i, f := range c.Frames {
		if offset == want {
			end := i + c.framesPerDirection()
			if end > len(c.Frames) {
				end = len(c.Frames)
			}
			return c.Frames[i:end], nil
		}
		if offset > want {
			break
		}
		offset += uint32(f.encodedSize())
	}

	return nil, &FormatError{Offset: int64(headerSize) + int64(want), Reason: "direction offset is not on a frame boundary"}
}
