package ifedit

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/frm"
	"github.com/bodgit/ifedit/palette"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) *palette.Palette {
	b := make([]byte, palette.Size)
	for i := 0; i < palette.Colors; i++ {
		b[i*3], b[i*3+1], b[i*3+2] = byte(i), byte(i), byte(i)
	}
	p := palette.New()
	require.Nil(t, p.UnmarshalBinary(b))
	return p
}

func testLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func writeContainer(t *testing.T, name string, fpd uint16, frames ...*frm.Frame) {
	c := &frm.Container{
		Version:            frm.Version,
		FPS:                10,
		FramesPerDirection: fpd,
		Frames:             frames,
	}
	c.Layout()
	require.Nil(t, os.MkdirAll(filepath.Dir(name), 0755))
	require.Nil(t, c.WriteFile(name))
}

func filledFrame(w, h int, index uint8) *frm.Frame {
	f := frm.NewFrame(w, h, 0, 0)
	for i := range f.Pix {
		f.Pix[i] = index
	}
	return f
}

func writePNG(t *testing.T, name string, m image.Image) {
	f, err := os.Create(name)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, m))
}

func TestFrames(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "art", "intrface", "iface.frm"), 1, filledFrame(4, 2, 7))

	logger, hook := testLogger()
	e := New(dir, testPalette(t), feature.New(), logger)

	ref := feature.ImageRef{Path: `art\intrface\iface.frm`}
	c, err := e.Frames(ref)
	require.Nil(t, err)
	require.Len(t, c.Frames, 1)
	assert.Equal(t, 4, c.Frames[0].Width)
	assert.Len(t, hook.AllEntries(), 1)

	again, err := e.Frames(ref)
	require.Nil(t, err)
	assert.Same(t, c, again)
	assert.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, 1, e.images.Len())

	e.images.Invalidate(ref)
	assert.False(t, e.images.Cached(ref))
	again, err = e.Frames(ref)
	require.Nil(t, err)
	assert.NotSame(t, c, again)
	assert.Equal(t, c, again)
}

func TestFramesMissing(t *testing.T) {
	logger, _ := testLogger()
	e := New(t.TempDir(), testPalette(t), feature.New(), logger)

	c, err := e.Frames(feature.ImageRef{Path: "missing.frm"})
	require.Nil(t, err)
	assert.Empty(t, c.Frames)
}

func TestFramesOutsideData(t *testing.T) {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "outside.frm"), 1, filledFrame(1, 1, 1))

	logger, _ := testLogger()
	e := New(filepath.Join(dir, "data"), testPalette(t), feature.New(), logger)

	for _, path := range []string{`..\outside.frm`, "art/../../outside.frm", "/etc/passwd"} {
		_, err := e.Frames(feature.ImageRef{Path: path})
		assert.ErrorIs(t, err, ErrOutsideData, path)
	}

	name, err := e.images.Path(feature.ImageRef{Path: `art\..\art\iface.frm`})
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "art", "iface.frm"), name)
}

func TestFramesMalformed(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "bad.frm"), []byte{0, 0, 0, 4}, 0644))

	logger, _ := testLogger()
	e := New(dir, testPalette(t), feature.New(), logger)

	_, err := e.Frames(feature.ImageRef{Path: "bad.frm"})
	var fe *frm.FormatError
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, e.images.Len())
}

func TestImport(t *testing.T) {
	dir := t.TempDir()

	first := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	first.Set(0, 0, color.NRGBA{0x40, 0x40, 0x40, 0xff})
	first.Set(1, 1, color.NRGBA{0xff, 0xff, 0xff, 0xff})
	second := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	second.Set(2, 0, color.NRGBA{0x10, 0x10, 0x10, 0xff})

	files := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	writePNG(t, files[0], first)
	writePNG(t, files[1], second)

	logger, _ := testLogger()
	e := New(dir, testPalette(t), feature.New(), logger)

	dst := filepath.Join(dir, "out.frm")
	require.Nil(t, e.Import(dst, files, frm.Options{FPS: 12, FramesPerDirection: 1, Offset: image.Pt(1, -1)}))

	c, err := frm.ReadFile(dst)
	require.Nil(t, err)
	require.Len(t, c.Frames, 2)
	assert.Equal(t, uint16(12), c.FPS)
	assert.Equal(t, 2, c.Directions())
	assert.Equal(t, []uint8{0x40, 0, 0, 0xff}, c.Frames[0].Pix)
	assert.Equal(t, []uint8{0, 0, 0x10}, c.Frames[1].Pix)
	assert.Equal(t, 1, c.Frames[1].OffsetX)
	assert.Equal(t, -1, c.Frames[1].OffsetY)
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), image.NewNRGBA(image.Rect(0, 0, 1, 1)))

	logger, _ := testLogger()

	e := New(dir, palette.New(), feature.New(), logger)
	assert.ErrorIs(t, e.Import(filepath.Join(dir, "out.frm"), []string{filepath.Join(dir, "a.png")}, frm.Options{}), palette.ErrNotLoaded)

	e = New(dir, testPalette(t), feature.New(), logger)
	assert.NotNil(t, e.Import(filepath.Join(dir, "out.frm"), []string{filepath.Join(dir, "missing.png")}, frm.Options{}))
	assert.NoFileExists(t, filepath.Join(dir, "out.frm"))
}
