/*
Package frm implements an indexed animation container decoder and encoder.

A container holds up to six directions of palette indexed frames. All values
are big-endian. The file starts with a 62 byte header:

	version              uint32
	frames per second    uint16
	action frame         uint16
	frames per direction uint16
	x shift              6 * int16
	y shift              6 * int16
	direction offset     6 * uint32
	frame data size      uint32

followed by the frame data, which is a sequence of frame records, each a 12
byte frame header followed by width * height bytes of palette indices in
row-major order:

	width    uint16
	height   uint16
	area     uint32 (width * height)
	x offset int16
	y offset int16

Frames are stored direction by direction, frames per direction frames at a
time. The direction offset table holds the position of each direction's
first frame relative to the start of the frame data. There is no magic
number and no compression.
*/
package frm

import "encoding/binary"

const (
	// Directions is the maximum number of directions in a container
	Directions = 6

	// Version is the container version written by default
	Version = 4

	frameHeaderSize = 12
)

type header struct {
	Version            uint32
	FPS                uint16
	ActionFrame        uint16
	FramesPerDirection uint16
	ShiftX             [Directions]int16
	ShiftY             [Directions]int16
	Offsets            [Directions]uint32
	FrameSize          uint32
}

type frameHeader struct {
	Width   uint16
	Height  uint16
	Area    uint32
	OffsetX int16
	OffsetY int16
}

var headerSize = binary.Size(header{})
