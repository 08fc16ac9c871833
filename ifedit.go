/*
Package ifedit is a library for editing the interface description of a game:
the feature dictionary binding interface slots to pictures and screen
regions, and the indexed frame containers holding those pictures.
*/
package ifedit

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/frm"
	"github.com/bodgit/ifedit/palette"
	"github.com/sirupsen/logrus"
)

// Editor ties a dictionary to the palette and frame containers it refers to.
// An Editor is not safe for concurrent use.
type Editor struct {
	dir     string
	palette *palette.Palette
	dict    *feature.Dictionary
	images  *ImageCache
	logger  *logrus.Logger
}

// New returns an Editor for d. Image paths in d are relative to dir.
func New(dir string, p *palette.Palette, d *feature.Dictionary, logger *logrus.Logger) *Editor {
	return &Editor{
		dir:     dir,
		palette: p,
		dict:    d,
		images:  NewImageCache(dir),
		logger:  logger,
	}
}

// Dictionary returns the dictionary being edited
func (e *Editor) Dictionary() *feature.Dictionary {
	return e.dict
}

// Palette returns the palette used for color conversion
func (e *Editor) Palette() *palette.Palette {
	return e.palette
}

// Frames returns the decoded frames for ref, decoding them on first use
func (e *Editor) Frames(ref feature.ImageRef) (*frm.Container, error) {
	cached := e.images.Cached(ref)
	c, err := e.images.Get(ref)
	if err != nil {
		return nil, err
	}
	if !cached {
		e.logger.Debugf("Decoded \"%s\", %d frames", ref.Path, len(c.Frames))
	}
	return c, nil
}

// Import converts the images in files into a new container written to dst
func (e *Editor) Import(dst string, files []string, opts frm.Options) error {
	images := make([]image.Image, 0, len(files))
	for _, file := range files {
		m, err := decodeImage(file)
		if err != nil {
			return err
		}
		images = append(images, m)
	}

	c, err := frm.New(images, e.palette, opts)
	if err != nil {
		return err
	}

	if err := c.WriteFile(dst); err != nil {
		return err
	}
	e.logger.Infof("Wrote \"%s\", %d frames in %d directions", dst, len(c.Frames), c.Directions())

	return nil
}

var errNoImage = errors.New("no image data")

func decodeImage(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if m.Bounds().Empty() {
		return nil, errNoImage
	}
	return m, nil
}
