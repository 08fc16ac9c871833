package frm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// FormatError reports malformed container data and the byte offset at which
// it was detected
type FormatError struct {
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("frm: %s at offset %d", e.Reason, e.Offset)
}

type decoder struct {
	b   []byte
	off int
	c   *Container
}

func (d *decoder) malformed(off int, reason string) error {
	return &FormatError{Offset: int64(off), Reason: reason}
}

func (d *decoder) readHeader() error {
	if len(d.b) < headerSize {
		return d.malformed(len(d.b), "truncated header")
	}

	var h header
	if err := binary.Read(bytes.NewReader(d.b[:headerSize]), binary.BigEndian, &h); err != nil {
		return err
	}
	d.off = headerSize

	d.c.Version = h.Version
	d.c.FPS = h.FPS
	d.c.ActionFrame = h.ActionFrame
	d.c.FramesPerDirection = h.FramesPerDirection
	d.c.ShiftX = h.ShiftX
	d.c.ShiftY = h.ShiftY
	d.c.Offsets = h.Offsets
	d.c.FrameSize = h.FrameSize

	return nil
}

// Read one frame record, remaining is the number of bytes left of the
// declared frame data
func (d *decoder) readFrame(remaining int) (*Frame, error) {
	if remaining < frameHeaderSize {
		return nil, d.malformed(d.off, "frame header exceeds frame data size")
	}
	if d.off+frameHeaderSize > len(d.b) {
		return nil, d.malformed(len(d.b), "truncated frame header")
	}

	// The area field is redundant and is ignored
	var h frameHeader
	h.Width = binary.BigEndian.Uint16(d.b[d.off:])
	h.Height = binary.BigEndian.Uint16(d.b[d.off+2:])
	h.OffsetX = int16(binary.BigEndian.Uint16(d.b[d.off+8:]))
	h.OffsetY = int16(binary.BigEndian.Uint16(d.b[d.off+10:]))

	n := int(h.Width) * int(h.Height)
	if frameHeaderSize+n > remaining {
		return nil, d.malformed(d.off, "frame exceeds frame data size")
	}
	start := d.off + frameHeaderSize
	if start+n > len(d.b) {
		return nil, d.malformed(len(d.b), "truncated frame data")
	}

	f := NewFrame(int(h.Width), int(h.Height), int(h.OffsetX), int(h.OffsetY))
	copy(f.Pix, d.b[start:start+n])
	d.off = start + n

	return f, nil
}

func (d *decoder) decode() error {
	if err := d.readHeader(); err != nil {
		return err
	}

	size := int(d.c.FrameSize)
	for read := 0; read < size; {
		f, err := d.readFrame(size - read)
		if err != nil {
			return err
		}
		d.c.Frames = append(d.c.Frames, f)
		read += f.encodedSize()
	}

	return nil
}

// Decode reads a container from r. The whole of r is buffered before
// decoding starts.
func Decode(r io.Reader) (*Container, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := new(Container)
	if err := c.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return c, nil
}

// UnmarshalBinary replaces the contents of the container with the decoded
// form of b
func (c *Container) UnmarshalBinary(b []byte) error {
	dup := new(Container)
	d := decoder{b: b, c: dup}
	if err := d.decode(); err != nil {
		return err
	}
	*c = *dup
	return nil
}

// ReadFile decodes the named file. A file that does not exist is not an
// error and results in an empty container.
func ReadFile(name string) (*Container, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return new(Container), nil
		}
		return nil, err
	}
	c := new(Container)
	if err := c.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}
