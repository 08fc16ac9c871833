package feature

import (
	"errors"
	"fmt"
)

var (
	// ErrNoOverlay is returned when a derived binding is changed for a
	// resolution that has no overlay
	ErrNoOverlay = errors.New("feature: no overlay for resolution")

	// ErrWrongKind is returned when binding a value of the wrong kind
	ErrWrongKind = errors.New("feature: wrong kind of value for key")
)

// Mode selects which bindings a lookup or edit applies to
type Mode int

// Inheritance modes
const (
	// Base selects the common bindings
	Base Mode = iota
	// Derived selects the overlay matching a resolution exactly
	Derived
)

func (m Mode) String() string {
	switch m {
	case Base:
		return "base"
	case Derived:
		return "derived"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Resolution is a screen size in pixels
type Resolution struct {
	Width, Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Bindings maps keys to values, remembering the order keys were first added.
// The zero value is empty and ready to use.
type Bindings struct {
	keys   []*Key
	values map[*Key]Value
}

// Len returns the number of bound keys
func (b *Bindings) Len() int {
	return len(b.keys)
}

// Keys returns the bound keys in insertion order
func (b *Bindings) Keys() []*Key {
	return append([]*Key(nil), b.keys...)
}

// Get returns the value bound to k
func (b *Bindings) Get(k *Key) (Value, bool) {
	v, ok := b.values[k]
	return v, ok
}

// Set binds v to k. A key that is already bound keeps its position.
func (b *Bindings) Set(k *Key, v Value) {
	if b.values == nil {
		b.values = make(map[*Key]Value)
	}
	if _, ok := b.values[k]; !ok {
		b.keys = append(b.keys, k)
	}
	b.values[k] = v
}

// Delete removes the binding for k, returning the old value
func (b *Bindings) Delete(k *Key) (Value, bool) {
	v, ok := b.values[k]
	if !ok {
		return nil, false
	}
	delete(b.values, k)
	for i, key := range b.keys {
		if key == k {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	return v, true
}

func (b *Bindings) merge(dst *Bindings, replace bool) {
	for _, k := range b.keys {
		if _, ok := dst.values[k]; ok && !replace {
			continue
		}
		dst.Set(k, b.values[k])
	}
}

// Overlay holds the bindings that override the common bindings at one
// resolution
type Overlay struct {
	Resolution Resolution
	Bindings
}

// Dictionary is a set of common bindings plus any number of resolution
// overlays
type Dictionary struct {
	Common   Bindings
	Overlays []*Overlay
}

// New returns an empty dictionary
func New() *Dictionary {
	return &Dictionary{}
}

// Overlay returns the first overlay for res, or nil
func (d *Dictionary) Overlay(res Resolution) *Overlay {
	for _, o := range d.Overlays {
		if o.Resolution == res {
			return o
		}
	}
	return nil
}

// AddOverlay appends a new empty overlay for res. It does not check for an
// existing overlay with the same resolution.
func (d *Dictionary) AddOverlay(res Resolution) *Overlay {
	o := &Overlay{Resolution: res}
	d.Overlays = append(d.Overlays, o)
	return o
}

func (d *Dictionary) bindings(mode Mode, res Resolution) *Bindings {
	if mode == Base {
		return &d.Common
	}
	if o := d.Overlay(res); o != nil {
		return &o.Bindings
	}
	return nil
}

// Resolve returns the value bound to k. With Base the common bindings are
// used and res is ignored; with Derived only the overlay for res is used. A
// missing overlay or binding is reported as not found.
func (d *Dictionary) Resolve(k *Key, mode Mode, res Resolution) (Value, bool) {
	b := d.bindings(mode, res)
	if b == nil {
		return nil, false
	}
	return b.Get(k)
}

// Set binds v to k in the bindings selected by mode and res
func (d *Dictionary) Set(k *Key, mode Mode, res Resolution, v Value) error {
	if v == nil || v.Kind() != k.Kind() {
		return ErrWrongKind
	}
	b := d.bindings(mode, res)
	if b == nil {
		return ErrNoOverlay
	}
	b.Set(k, v)
	return nil
}

// Remove deletes the binding for k in the bindings selected by mode and res,
// returning the old value
func (d *Dictionary) Remove(k *Key, mode Mode, res Resolution) (Value, bool) {
	b := d.bindings(mode, res)
	if b == nil {
		return nil, false
	}
	return b.Delete(k)
}

// Replace changes the binding for k only if it currently equals expected,
// where a nil expected means unbound. A nil v removes the binding. It
// reports whether the change was made; a mismatch leaves the dictionary
// untouched.
func (d *Dictionary) Replace(k *Key, mode Mode, res Resolution, expected, v Value) bool {
	if v != nil && v.Kind() != k.Kind() {
		return false
	}
	b := d.bindings(mode, res)
	if b == nil {
		return false
	}
	current, _ := b.Get(k)
	if !Equal(current, expected) {
		return false
	}
	if v == nil {
		b.Delete(k)
	} else {
		b.Set(k, v)
	}
	return true
}

// CopyInto merges d into dst. Existing bindings in dst are only overwritten
// if replace is true. Each overlay in d is merged into the first overlay in
// dst with the same resolution, which is created if needed.
func (d *Dictionary) CopyInto(dst *Dictionary, replace bool) {
	d.Common.merge(&dst.Common, replace)
	for _, o := range d.Overlays {
		target := dst.Overlay(o.Resolution)
		if target == nil {
			target = dst.AddOverlay(o.Resolution)
		}
		o.Bindings.merge(&target.Bindings, replace)
	}
}

// Binding is one key and value pair from a dictionary along with where it
// came from. Resolution is zero for common bindings.
type Binding struct {
	Key        *Key
	Mode       Mode
	Resolution Resolution
	Value      Value
}

// Identity returns the identity of the slot the binding occupies
func (b Binding) Identity() string {
	return Identity(b.Key, b.Value.Kind(), b.Mode, b.Resolution)
}

// Walk calls fn for every common binding and then every overlay binding, in
// order. Walking stops at the first error which is returned.
func (d *Dictionary) Walk(fn func(Binding) error) error {
	for _, k := range d.Common.keys {
		if err := fn(Binding{Key: k, Mode: Base, Value: d.Common.values[k]}); err != nil {
			return err
		}
	}
	for _, o := range d.Overlays {
		for _, k := range o.keys {
			if err := fn(Binding{Key: k, Mode: Derived, Resolution: o.Resolution, Value: o.values[k]}); err != nil {
				return err
			}
		}
	}
	return nil
}
