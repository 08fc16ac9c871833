/*
Package feature implements the layered feature dictionary describing a game
interface.

A dictionary binds feature keys, a fixed set of named interface slots, to
values. The common bindings apply at every screen resolution; a resolution
overlay holds bindings that apply only at one exact width and height.

The text form is line based:

	# comment
	; comment
	main_picture = art/intrface/iface.frm
	main_picture_position = 0 379 640 479

	resolution 800 600
	main_picture_position = 80 499 720 599

A resolution line opens an overlay that lasts until the next resolution line
or the end of the input. Blank lines and autocursor directives are ignored.
*/
package feature

import "fmt"

// Category groups keys by what they describe
type Category int

// Key categories
const (
	CategoryOther Category = iota
	CategoryPicture
	CategoryPictureRect
	CategoryTextRect
)

var categoryNames = [...]string{
	CategoryOther:       "other",
	CategoryPicture:     "picture",
	CategoryPictureRect: "picture rectangle",
	CategoryTextRect:    "text rectangle",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Key identifies one interface slot. Keys are only created by this package
// and are compared by identity.
type Key struct {
	name     string
	category Category
	kind     Kind
	main     *Key
	position *Key
}

// Name returns the name used for the key in the text form
func (k *Key) Name() string { return k.name }

// Category returns the key category
func (k *Key) Category() Category { return k.category }

// Kind returns the kind of value the key is bound to
func (k *Key) Kind() Kind { return k.kind }

// Main returns the main picture that the key is drawn relative to, or nil
func (k *Key) Main() *Key { return k.main }

// Position returns the rectangle key positioning a picture key, or nil
func (k *Key) Position() *Key { return k.position }

func (k *Key) String() string { return k.name }

var (
	keys   []*Key
	byName = make(map[string]*Key)
)

func newKey(name string, category Category, kind Kind, main *Key) *Key {
	if _, ok := byName[name]; ok {
		panic("feature: duplicate key " + name)
	}
	k := &Key{
		name:     name,
		category: category,
		kind:     kind,
		main:     main,
	}
	keys = append(keys, k)
	byName[name] = k
	return k
}

func mainPicture(name string) *Key {
	return newKey(name, CategoryPicture, KindImage, nil)
}

func picture(name string, main *Key) *Key {
	return newKey(name, CategoryPicture, KindImage, main)
}

// Rectangles are owned by the main picture of the picture they position
func pictureRect(name string, picture *Key) *Key {
	main := picture.main
	if main == nil {
		main = picture
	}
	k := newKey(name, CategoryPictureRect, KindRectangle, main)
	picture.position = k
	return k
}

func textRect(name string, main *Key) *Key {
	return newKey(name, CategoryTextRect, KindRectangle, main)
}

func other(name string, kind Kind) *Key {
	return newKey(name, CategoryOther, kind, nil)
}

// The interface bar
var (
	MainPicture         = mainPicture("main_picture")
	MainPicturePosition = pictureRect("main_picture_position", MainPicture)

	InventoryPicture  = picture("inventory_picture", MainPicture)
	InventoryPosition = pictureRect("inventory_position", InventoryPicture)
	OptionsPicture    = picture("options_picture", MainPicture)
	OptionsPosition   = pictureRect("options_position", OptionsPicture)
	MapPicture        = picture("map_picture", MainPicture)
	MapPosition       = pictureRect("map_position", MapPicture)
	HitPointsPicture  = picture("hit_points_picture", MainPicture)
	HitPointsPosition = pictureRect("hit_points_position", HitPointsPicture)

	MessageText   = textRect("message_text", MainPicture)
	HitPointsText = textRect("hit_points_text", MainPicture)
)

// The dialog window
var (
	DialogPicture         = mainPicture("dialog_picture")
	DialogPicturePosition = pictureRect("dialog_picture_position", DialogPicture)

	DialogReplyText   = textRect("dialog_reply_text", DialogPicture)
	DialogOptionsText = textRect("dialog_options_text", DialogPicture)
)

// Everything else
var (
	MessageFont  = other("message_font", KindScalar)
	MessageColor = other("message_color", KindScalar)
	Title        = other("title", KindText)
)

// Keys returns every key in declaration order
func Keys() []*Key {
	return append([]*Key(nil), keys...)
}

// Lookup returns the key with the given name
func Lookup(name string) (*Key, bool) {
	k, ok := byName[name]
	return k, ok
}
