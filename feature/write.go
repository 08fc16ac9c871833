package feature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var errNewline = errors.New("feature: value contains a line break")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func writeBindings(w io.Writer, b *Bindings) error {
	for _, k := range b.keys {
		s := b.values[k].String()
		if strings.ContainsAny(s, "\r\n") {
			return fmt.Errorf("%s: %w", k, errNewline)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", k, s); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the dictionary in its text form. Common bindings are
// written first followed by each overlay in order.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	if err := writeBindings(cw, &d.Common); err != nil {
		return cw.n, err
	}

	for _, o := range d.Overlays {
		if _, err := fmt.Fprintf(cw, "\nresolution %d %d\n", o.Resolution.Width, o.Resolution.Height); err != nil {
			return cw.n, err
		}
		if err := writeBindings(cw, &o.Bindings); err != nil {
			return cw.n, err
		}
	}

	return cw.n, nil
}

// WriteFile replaces the named file with the text form of the dictionary,
// encoded with enc if it is not nil
func (d *Dictionary) WriteFile(name string, enc encoding.Encoding) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var tw *transform.Writer
	if enc != nil {
		tw = transform.NewWriter(f, enc.NewEncoder())
		w = tw
	}

	bw := bufio.NewWriter(w)
	if _, err := d.WriteTo(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return err
		}
	}

	return f.Close()
}
