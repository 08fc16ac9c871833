package frm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
)

var (
	errBadPixels   = errors.New("frm: pixel buffer does not match frame size")
	errTooBig      = errors.New("frm: frame dimensions too large")
	errBadOffset   = errors.New("frm: frame offset out of range")
	errTooManyDirs = errors.New("frm: too many frames for six directions")
)

type encoder struct {
	w io.Writer
}

func checkFrame(f *Frame) error {
	if f.Width > math.MaxUint16 || f.Height > math.MaxUint16 {
		return errTooBig
	}
	if f.OffsetX < math.MinInt16 || f.OffsetX > math.MaxInt16 || f.OffsetY < math.MinInt16 || f.OffsetY > math.MaxInt16 {
		return errBadOffset
	}
	if len(f.Pix) != f.Width*f.Height {
		return errBadPixels
	}
	return nil
}

func (e *encoder) encode(c *Container) error {
	offsets, size := c.layout()

	h := header{
		Version:            c.Version,
		FPS:                c.FPS,
		ActionFrame:        c.ActionFrame,
		FramesPerDirection: c.FramesPerDirection,
		ShiftX:             c.ShiftX,
		ShiftY:             c.ShiftY,
		Offsets:            offsets,
		FrameSize:          size,
	}
	if err := binary.Write(e.w, binary.BigEndian, &h); err != nil {
		return err
	}

	for _, f := range c.Frames {
		fh := frameHeader{
			Width:   uint16(f.Width),
			Height:  uint16(f.Height),
			Area:    uint32(f.Width * f.Height),
			OffsetX: int16(f.OffsetX),
			OffsetY: int16(f.OffsetY),
		}
		if err := binary.Write(e.w, binary.BigEndian, &fh); err != nil {
			return err
		}
		if _, err := e.w.Write(f.Pix); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes c to w. The per frame area fields, the direction offset
// table and the frame data size are computed from the frames rather than
// taken from c.
func Encode(w io.Writer, c *Container) error {
	if c.FramesPerDirection > 0 && len(c.Frames) > int(c.FramesPerDirection)*Directions {
		return errTooManyDirs
	}
	for _, f := range c.Frames {
		if err := checkFrame(f); err != nil {
			return err
		}
	}

	e := encoder{w: w}

	return e.encode(c)
}

// MarshalBinary encodes the container into binary form
func (c *Container) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, c); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// WriteFile encodes the container and replaces the contents of the named
// file with the result
func (c *Container) WriteFile(name string) error {
	b, err := c.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(name, b, 0644)
}
