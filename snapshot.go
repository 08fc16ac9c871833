package ifedit

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bodgit/ifedit/feature"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned when a named snapshot does not exist
var ErrNoSnapshot = errors.New("no such snapshot")

// common is the overlay position used for bindings in the common scope
const common = -1

// SnapshotDB stores named copies of a dictionary so that two of them can be
// compared binding by binding
type SnapshotDB struct {
	db *sql.DB
}

// NewSnapshotDB opens or creates the snapshot database in file
func NewSnapshotDB(file string) (*SnapshotDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS snapshot (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS overlay (snapshot_id INTEGER NOT NULL, position INTEGER NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, UNIQUE(snapshot_id, position), FOREIGN KEY(snapshot_id) REFERENCES snapshot(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS binding (snapshot_id INTEGER NOT NULL, overlay INTEGER NOT NULL, position INTEGER NOT NULL, identity TEXT NOT NULL, name TEXT NOT NULL, value TEXT NOT NULL, UNIQUE(snapshot_id, overlay, position), FOREIGN KEY(snapshot_id) REFERENCES snapshot(id))"); err != nil {
		return nil, err
	}

	return &SnapshotDB{
		db: db,
	}, nil
}

// Close closes the database
func (db *SnapshotDB) Close() error {
	return db.db.Close()
}

func (db *SnapshotDB) findSnapshot(name string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM snapshot WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		return 0, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

func insertBindings(tx *sql.Tx, id int64, overlay int, mode feature.Mode, res feature.Resolution, b *feature.Bindings) error {
	for i, k := range b.Keys() {
		v, _ := b.Get(k)
		identity := feature.Identity(k, v.Kind(), mode, res)
		if _, err := tx.Exec("INSERT INTO binding (snapshot_id, overlay, position, identity, name, value) VALUES (?, ?, ?, ?, ?, ?)", id, overlay, i, identity, k.Name(), v.String()); err != nil {
			return err
		}
	}
	return nil
}

// Save stores d under name, replacing any existing snapshot of that name
func (db *SnapshotDB) Save(name string, d *feature.Dictionary) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int64
	switch err := tx.QueryRow("SELECT id FROM snapshot WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := tx.Exec("INSERT INTO snapshot (name) VALUES (?)", name)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
	case nil:
		if _, err := tx.Exec("DELETE FROM binding WHERE snapshot_id = ?", id); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM overlay WHERE snapshot_id = ?", id); err != nil {
			return err
		}
	default:
		return err
	}

	if err = insertBindings(tx, id, common, feature.Base, feature.Resolution{}, &d.Common); err != nil {
		return err
	}

	for i, o := range d.Overlays {
		if _, err = tx.Exec("INSERT INTO overlay (snapshot_id, position, width, height) VALUES (?, ?, ?, ?)", id, i, o.Resolution.Width, o.Resolution.Height); err != nil {
			return err
		}
		if err = insertBindings(tx, id, i, feature.Derived, o.Resolution, &o.Bindings); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load rebuilds the dictionary stored under name
func (db *SnapshotDB) Load(name string) (*feature.Dictionary, error) {
	id, err := db.findSnapshot(name)
	if err != nil {
		return nil, err
	}

	d := feature.New()

	rows, err := db.db.Query("SELECT width, height FROM overlay WHERE snapshot_id = ? ORDER BY position", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var res feature.Resolution
		if err := rows.Scan(&res.Width, &res.Height); err != nil {
			return nil, err
		}
		d.AddOverlay(res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.db.Query("SELECT overlay, name, value FROM binding WHERE snapshot_id = ? ORDER BY overlay, position", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var overlay int
		var name, value string
		if err := rows.Scan(&overlay, &name, &value); err != nil {
			return nil, err
		}

		k, ok := feature.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("snapshot: unknown key %q", name)
		}
		v, err := feature.ParseValue(k, value)
		if err != nil {
			return nil, err
		}

		switch {
		case overlay == common:
			d.Common.Set(k, v)
		case overlay >= 0 && overlay < len(d.Overlays):
			d.Overlays[overlay].Set(k, v)
		default:
			return nil, fmt.Errorf("snapshot: binding for missing overlay %d", overlay)
		}
	}

	return d, rows.Err()
}

// Names returns the names of all stored snapshots in the order they were
// first saved
func (db *SnapshotDB) Names() ([]string, error) {
	rows, err := db.db.Query("SELECT name FROM snapshot ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes the snapshot stored under name
func (db *SnapshotDB) Delete(name string) error {
	id, err := db.findSnapshot(name)
	if err != nil {
		return err
	}

	for _, query := range []string{
		"DELETE FROM binding WHERE snapshot_id = ?",
		"DELETE FROM overlay WHERE snapshot_id = ?",
		"DELETE FROM snapshot WHERE id = ?",
	} {
		if _, err := db.db.Exec(query, id); err != nil {
			return err
		}
	}
	return nil
}

// Change describes one binding that differs between two snapshots. Old is
// nil for an added binding and New is nil for a removed one.
type Change struct {
	Identity string
	Binding  feature.Binding
	Old, New feature.Value
}

func (c Change) String() string {
	b := c.Binding
	scope := b.Mode.String()
	if b.Mode == feature.Derived {
		scope = b.Resolution.String()
	}
	switch {
	case c.Old == nil:
		return fmt.Sprintf("+ %s [%s] %s = %s", c.Identity, scope, b.Key, c.New)
	case c.New == nil:
		return fmt.Sprintf("- %s [%s] %s = %s", c.Identity, scope, b.Key, c.Old)
	default:
		return fmt.Sprintf("~ %s [%s] %s = %s -> %s", c.Identity, scope, b.Key, c.Old, c.New)
	}
}

// index returns the bindings of d keyed by identity, in walk order. Only the
// first of several bindings sharing an identity is kept, matching what
// Resolve would return.
func index(d *feature.Dictionary) ([]string, map[string]feature.Binding, error) {
	var order []string
	m := make(map[string]feature.Binding)
	err := d.Walk(func(b feature.Binding) error {
		id := b.Identity()
		if _, ok := m[id]; !ok {
			order = append(order, id)
			m[id] = b
		}
		return nil
	})
	return order, m, err
}

// Diff compares the snapshots from and to. Added and modified bindings are
// listed in the order they appear in to, followed by removed bindings in the
// order they appear in from.
func (db *SnapshotDB) Diff(from, to string) ([]Change, error) {
	a, err := db.Load(from)
	if err != nil {
		return nil, err
	}
	b, err := db.Load(to)
	if err != nil {
		return nil, err
	}
	return DiffDictionaries(a, b)
}

// DiffDictionaries compares two dictionaries directly
func DiffDictionaries(from, to *feature.Dictionary) ([]Change, error) {
	fromOrder, fromIndex, err := index(from)
	if err != nil {
		return nil, err
	}
	toOrder, toIndex, err := index(to)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, id := range toOrder {
		nb := toIndex[id]
		ob, ok := fromIndex[id]
		switch {
		case !ok:
			changes = append(changes, Change{Identity: id, Binding: nb, New: nb.Value})
		case !feature.Equal(ob.Value, nb.Value):
			changes = append(changes, Change{Identity: id, Binding: nb, Old: ob.Value, New: nb.Value})
		}
	}
	for _, id := range fromOrder {
		if _, ok := toIndex[id]; !ok {
			ob := fromIndex[id]
			changes = append(changes, Change{Identity: id, Binding: ob, Old: ob.Value})
		}
	}

	return changes, nil
}
