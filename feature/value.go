package feature

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies the variant held by a Value
type Kind int

// Value kinds
const (
	KindImage Kind = iota + 1
	KindRectangle
	KindScalar
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindRectangle:
		return "rectangle"
	case KindScalar:
		return "scalar"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is the content bound to a key. It is one of ImageRef, Rectangle,
// Scalar or Text. Values are immutable and are compared with Equal.
type Value interface {
	Kind() Kind
	String() string
	value()
}

// ImageRef refers to a frame container by path
type ImageRef struct {
	Path string
}

// Rectangle is a region in reference picture pixels
type Rectangle struct {
	Left, Top, Right, Bottom float64
}

// Scalar is a plain number
type Scalar float64

// Text is a plain string
type Text string

func (ImageRef) Kind() Kind  { return KindImage }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Scalar) Kind() Kind    { return KindScalar }
func (Text) Kind() Kind      { return KindText }

func (ImageRef) value()  {}
func (Rectangle) value() {}
func (Scalar) value()    {}
func (Text) value()      {}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (v ImageRef) String() string { return v.Path }

func (v Rectangle) String() string {
	return strings.Join([]string{formatFloat(v.Left), formatFloat(v.Top), formatFloat(v.Right), formatFloat(v.Bottom)}, " ")
}

func (v Scalar) String() string { return formatFloat(float64(v)) }

func (v Text) String() string { return string(v) }

// Vec4 returns the rectangle as (left, top, right, bottom)
func (v Rectangle) Vec4() mgl64.Vec4 {
	return mgl64.Vec4{v.Left, v.Top, v.Right, v.Bottom}
}

// RectangleFromVec4 is the inverse of Rectangle.Vec4
func RectangleFromVec4(r mgl64.Vec4) Rectangle {
	return Rectangle{r.X(), r.Y(), r.Z(), r.W()}
}

func sameFloat(x, y float64) bool {
	return x == y || (math.IsNaN(x) && math.IsNaN(y))
}

// Equal reports whether two values, either of which may be nil, are the same.
// NaN components compare equal to each other.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Rectangle:
		y, ok := b.(Rectangle)
		return ok && sameFloat(x.Left, y.Left) && sameFloat(x.Top, y.Top) && sameFloat(x.Right, y.Right) && sameFloat(x.Bottom, y.Bottom)
	case Scalar:
		y, ok := b.(Scalar)
		return ok && sameFloat(float64(x), float64(y))
	}
	return a == b
}

var (
	errEmptyPath = errors.New("empty image path")
	errRectangle = errors.New("rectangle needs four numbers")
)

// parseFloat only accepts finite numbers
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t'
}

// ParseValue parses s as the kind of value bound to k
func ParseValue(k *Key, s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch k.Kind() {
	case KindImage:
		if s == "" {
			return nil, errEmptyPath
		}
		return ImageRef{Path: s}, nil
	case KindRectangle:
		fields := strings.FieldsFunc(s, isSeparator)
		if len(fields) != 4 {
			return nil, errRectangle
		}
		var f [4]float64
		for i, field := range fields {
			v, ok := parseFloat(field)
			if !ok {
				return nil, fmt.Errorf("bad rectangle component %q", field)
			}
			f[i] = v
		}
		return Rectangle{f[0], f[1], f[2], f[3]}, nil
	case KindScalar:
		v, ok := parseFloat(s)
		if !ok {
			return nil, fmt.Errorf("bad number %q", s)
		}
		return Scalar(v), nil
	case KindText:
		return Text(s), nil
	}
	return nil, fmt.Errorf("key %s has no value kind", k)
}
