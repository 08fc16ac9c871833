package ifedit

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/ifedit/feature"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec2(t *testing.T, expected, actual mgl64.Vec2) {
	assert.InDelta(t, expected.X(), actual.X(), 1e-9)
	assert.InDelta(t, expected.Y(), actual.Y(), 1e-9)
}

func testPlacementEditor(t *testing.T) *Editor {
	dir := t.TempDir()
	writeContainer(t, filepath.Join(dir, "art", "iface.frm"), 1, filledFrame(100, 50, 1))

	d := feature.New()
	require.Nil(t, d.Set(feature.MainPicture, feature.Base, feature.Resolution{}, feature.ImageRef{Path: `art\iface.frm`}))
	require.Nil(t, d.Set(feature.InventoryPosition, feature.Base, feature.Resolution{}, feature.Rectangle{Left: 10, Top: 5, Right: 30, Bottom: 25}))
	require.Nil(t, d.Set(feature.Title, feature.Base, feature.Resolution{}, feature.Text("Title")))

	res := feature.Resolution{Width: 200, Height: 100}
	d.AddOverlay(res)
	require.Nil(t, d.Set(feature.InventoryPosition, feature.Derived, res, feature.Rectangle{Left: 0, Top: 0, Right: 50, Bottom: 50}))

	require.Nil(t, d.Set(feature.DialogPicture, feature.Base, feature.Resolution{}, feature.ImageRef{Path: "missing.frm"}))
	require.Nil(t, d.Set(feature.DialogReplyText, feature.Base, feature.Resolution{}, feature.Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}))

	logger, _ := testLogger()
	return New(dir, testPalette(t), d, logger)
}

func TestPlacement(t *testing.T) {
	e := testPlacementEditor(t)
	screen := feature.Resolution{Width: 200, Height: 100}

	p, ok, err := e.Placement(feature.InventoryPosition, feature.Base, screen)
	require.Nil(t, err)
	require.True(t, ok)

	assert.Equal(t, mgl64.Vec4{20, 10, 60, 50}, p.Rect)
	assert.Equal(t, 40, p.Width)
	assert.Equal(t, 40, p.Height)
	assert.Equal(t, mgl64.Vec2{40, 30}, p.Midpoint)
	assertVec2(t, mgl64.Vec2{-0.8, 0.8}, p.Quad[0])
	assertVec2(t, mgl64.Vec2{-0.4, 0.8}, p.Quad[1])
	assertVec2(t, mgl64.Vec2{-0.4, 0}, p.Quad[2])
	assertVec2(t, mgl64.Vec2{-0.8, 0}, p.Quad[3])
}

func TestPlacementDerived(t *testing.T) {
	e := testPlacementEditor(t)

	// The main picture only exists in the common scope
	p, ok, err := e.Placement(feature.InventoryPosition, feature.Derived, feature.Resolution{Width: 200, Height: 100})
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec4{0, 0, 100, 100}, p.Rect)

	_, ok, err = e.Placement(feature.InventoryPosition, feature.Derived, feature.Resolution{Width: 640, Height: 480})
	require.Nil(t, err)
	assert.False(t, ok)
}

func TestPlacementUnscaled(t *testing.T) {
	e := testPlacementEditor(t)

	p, ok, err := e.Placement(feature.DialogReplyText, feature.Base, feature.Resolution{Width: 640, Height: 480})
	require.Nil(t, err)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec4{1, 2, 3, 4}, p.Rect)
	assert.Equal(t, 2, p.Width)
	assert.Equal(t, 2, p.Height)
}

func TestPlacementErrors(t *testing.T) {
	e := testPlacementEditor(t)

	_, _, err := e.Placement(feature.Title, feature.Base, feature.Resolution{Width: 640, Height: 480})
	assert.ErrorIs(t, err, feature.ErrWrongKind)

	_, ok, err := e.Placement(feature.MapPosition, feature.Base, feature.Resolution{Width: 640, Height: 480})
	assert.Nil(t, err)
	assert.False(t, ok)
}
