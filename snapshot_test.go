package ifedit

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/bodgit/ifedit/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshotDB(t *testing.T) *SnapshotDB {
	db, err := NewSnapshotDB(filepath.Join(t.TempDir(), "snapshots.db"))
	require.Nil(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func testDictionary(t *testing.T) *feature.Dictionary {
	d := feature.New()
	require.Nil(t, d.Set(feature.MainPicture, feature.Base, feature.Resolution{}, feature.ImageRef{Path: `art\intrface\iface.frm`}))
	require.Nil(t, d.Set(feature.InventoryPosition, feature.Base, feature.Resolution{}, feature.Rectangle{Left: 10, Top: 5, Right: 30, Bottom: 25.5}))
	require.Nil(t, d.Set(feature.Title, feature.Base, feature.Resolution{}, feature.Text("Fallout")))

	res := feature.Resolution{Width: 800, Height: 600}
	d.AddOverlay(res)
	require.Nil(t, d.Set(feature.InventoryPosition, feature.Derived, res, feature.Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}))
	require.Nil(t, d.Set(feature.MessageFont, feature.Derived, res, feature.Scalar(101)))

	d.AddOverlay(feature.Resolution{Width: 1024, Height: 768})
	return d
}

func dictionaryText(t *testing.T, d *feature.Dictionary) string {
	b := new(bytes.Buffer)
	_, err := d.WriteTo(b)
	require.Nil(t, err)
	return b.String()
}

func TestSnapshotSaveLoad(t *testing.T) {
	db := testSnapshotDB(t)
	d := testDictionary(t)

	require.Nil(t, db.Save("before", d))

	loaded, err := db.Load("before")
	require.Nil(t, err)
	require.Len(t, loaded.Overlays, 2)
	assert.Equal(t, 0, loaded.Overlays[1].Len())
	assert.Equal(t, dictionaryText(t, d), dictionaryText(t, loaded))

	_, err = db.Load("missing")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSnapshotReplace(t *testing.T) {
	db := testSnapshotDB(t)
	d := testDictionary(t)

	require.Nil(t, db.Save("a", d))
	require.Nil(t, db.Save("b", feature.New()))

	d.Remove(feature.Title, feature.Base, feature.Resolution{})
	require.Nil(t, db.Save("a", d))

	loaded, err := db.Load("a")
	require.Nil(t, err)
	_, ok := loaded.Resolve(feature.Title, feature.Base, feature.Resolution{})
	assert.False(t, ok)
	assert.Equal(t, dictionaryText(t, d), dictionaryText(t, loaded))

	names, err := db.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.Nil(t, db.Delete("a"))
	names, err = db.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"b"}, names)
	assert.ErrorIs(t, db.Delete("a"), ErrNoSnapshot)
}

func TestSnapshotDiff(t *testing.T) {
	db := testSnapshotDB(t)
	res := feature.Resolution{Width: 800, Height: 600}

	before := testDictionary(t)
	require.Nil(t, db.Save("before", before))

	after := testDictionary(t)
	require.True(t, after.Replace(feature.InventoryPosition, feature.Derived, res, feature.Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}, feature.Rectangle{Left: 5, Top: 6, Right: 7, Bottom: 8}))
	after.Remove(feature.Title, feature.Base, feature.Resolution{})
	require.Nil(t, after.Set(feature.MapPicture, feature.Base, feature.Resolution{}, feature.ImageRef{Path: "map.frm"}))
	require.Nil(t, db.Save("after", after))

	changes, err := db.Diff("before", "after")
	require.Nil(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, feature.MapPicture, changes[0].Binding.Key)
	assert.Nil(t, changes[0].Old)
	assert.Equal(t, feature.ImageRef{Path: "map.frm"}, changes[0].New)
	assert.Equal(t, feature.Identity(feature.MapPicture, feature.KindImage, feature.Base, feature.Resolution{}), changes[0].Identity)

	assert.Equal(t, feature.InventoryPosition, changes[1].Binding.Key)
	assert.Equal(t, res, changes[1].Binding.Resolution)
	assert.Equal(t, feature.Rectangle{Left: 1, Top: 2, Right: 3, Bottom: 4}, changes[1].Old)
	assert.Equal(t, feature.Rectangle{Left: 5, Top: 6, Right: 7, Bottom: 8}, changes[1].New)

	assert.Equal(t, feature.Title, changes[2].Binding.Key)
	assert.Equal(t, feature.Text("Fallout"), changes[2].Old)
	assert.Nil(t, changes[2].New)

	assert.Equal(t, "~ "+changes[1].Identity+" [800x600] inventory_position = 1 2 3 4 -> 5 6 7 8", changes[1].String())

	changes, err = db.Diff("before", "before")
	require.Nil(t, err)
	assert.Empty(t, changes)

	_, err = db.Diff("before", "missing")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
