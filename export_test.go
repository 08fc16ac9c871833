package ifedit

import (
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportName(t *testing.T) {
	name, err := exportName("/data", filepath.Join("/data", "art", "intrface", "iface.frm"))
	require.Nil(t, err)
	assert.Equal(t, "art_intrface_iface", name)
}

func TestExport(t *testing.T) {
	src, dst := t.TempDir(), filepath.Join(t.TempDir(), "png")

	writeContainer(t, filepath.Join(src, "art", "intrface", "iface.frm"), 2, filledFrame(2, 2, 0x80), filledFrame(1, 1, 0), filledFrame(3, 1, 0x10))
	writeContainer(t, filepath.Join(src, "cursor.FRM"), 1, filledFrame(1, 1, 0xff))
	writeContainer(t, filepath.Join(src, ".hidden", "skip.frm"), 1, filledFrame(1, 1, 1))
	require.Nil(t, os.WriteFile(filepath.Join(src, "color.pal"), make([]byte, palette.Size), 0644))

	logger, hook := testLogger()
	e := New(src, testPalette(t), feature.New(), logger)
	require.Nil(t, e.Export(src, dst))

	entries, err := os.ReadDir(dst)
	require.Nil(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"art_intrface_iface_0_0.png",
		"art_intrface_iface_0_1.png",
		"art_intrface_iface_1_0.png",
		"cursor_0_0.png",
	}, names)
	assert.Len(t, hook.AllEntries(), 2)

	f, err := os.Open(filepath.Join(dst, "art_intrface_iface_0_0.png"))
	require.Nil(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.Nil(t, err)
	assert.Equal(t, 2, m.Bounds().Dx())
	assert.Equal(t, color.NRGBAModel.Convert(color.NRGBA{0x80, 0x80, 0x80, 0xff}), color.NRGBAModel.Convert(m.At(1, 1)))

	f, err = os.Open(filepath.Join(dst, "art_intrface_iface_0_1.png"))
	require.Nil(t, err)
	defer f.Close()
	m, err = png.Decode(f)
	require.Nil(t, err)
	_, _, _, a := m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}

func TestExportErrors(t *testing.T) {
	src := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(src, "bad.frm"), []byte{1, 2, 3}, 0644))

	logger, _ := testLogger()

	e := New(src, palette.New(), feature.New(), logger)
	assert.ErrorIs(t, e.Export(src, t.TempDir()), palette.ErrNotLoaded)

	e = New(src, testPalette(t), feature.New(), logger)
	assert.NotNil(t, e.Export(src, t.TempDir()))
}

func TestExportSingleDirection(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeContainer(t, filepath.Join(src, "anim.frm"), 0, filledFrame(1, 1, 1), filledFrame(1, 1, 2))

	logger, _ := testLogger()
	e := New(src, testPalette(t), feature.New(), logger)
	require.Nil(t, e.Export(src, dst))

	assert.FileExists(t, filepath.Join(dst, "anim_0_0.png"))
	assert.FileExists(t, filepath.Join(dst, "anim_0_1.png"))
}

func TestExportNameClash(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	writeContainer(t, filepath.Join(src, "a_b", "c.frm"), 1, filledFrame(1, 1, 1))
	writeContainer(t, filepath.Join(src, "a", "b_c.frm"), 1, filledFrame(1, 1, 2))

	logger, _ := testLogger()
	e := New(src, testPalette(t), feature.New(), logger)
	assert.ErrorIs(t, e.Export(src, dst), errNameClash)
}

func TestWaitForPipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, second := make(chan error, 1), make(chan error)
	first <- errors.New("first")
	close(first)

	// The second stage only finishes once the pipeline is cancelled
	var finished bool
	go func() {
		<-ctx.Done()
		finished = true
		second <- errors.New("second")
		close(second)
	}()

	assert.EqualError(t, waitForPipeline(cancel, first, second), "first")
	assert.True(t, finished)
}
