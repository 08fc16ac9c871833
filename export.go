package ifedit

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/ifedit/frm"
	"github.com/bodgit/ifedit/palette"
	"github.com/dustin/go-humanize"
)

const exportWorkers = 10

func (e *Editor) findContainers(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".frm") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// exportName flattens the path of file relative to base into a single
// file name prefix, so art/intrface/iface.frm becomes art_intrface_iface
func exportName(base, file string) (string, error) {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "_"), nil
}

var errNameClash = errors.New("export name clash")

// exportNames records which container claimed each flattened name
type exportNames struct {
	mu    sync.Mutex
	files map[string]string
}

func (n *exportNames) claim(name, file string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if other, ok := n.files[name]; ok {
		return fmt.Errorf("%w: %s and %s both export as %s", errNameClash, other, file, name)
	}
	n.files[name] = file
	return nil
}

func (e *Editor) exportContainer(base, dst, file string, names *exportNames) error {
	name, err := exportName(base, file)
	if err != nil {
		return err
	}
	if err := names.claim(name, file); err != nil {
		return err
	}

	c, err := frm.ReadFile(file)
	if err != nil {
		return err
	}

	var written uint64
	for d := 0; d < c.Directions(); d++ {
		frames, err := c.Direction(d)
		if err != nil {
			return err
		}
		for i, f := range frames {
			if f.Width == 0 || f.Height == 0 {
				continue
			}

			m, err := f.Image(e.palette)
			if err != nil {
				return err
			}

			out, err := os.Create(filepath.Join(dst, fmt.Sprintf("%s_%d_%d.png", name, d, i)))
			if err != nil {
				return err
			}

			if err := png.Encode(out, m); err != nil {
				out.Close()
				return err
			}

			info, err := out.Stat()
			if err != nil {
				out.Close()
				return err
			}
			written += uint64(info.Size())

			if err := out.Close(); err != nil {
				return err
			}
		}
	}

	e.logger.Debugf("Exported \"%s\", %d frames, %s", file, len(c.Frames), humanize.Bytes(written))

	return nil
}

func (e *Editor) exportWorker(ctx context.Context, base, dst string, names *exportNames, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := e.exportContainer(base, dst, file, names); err != nil {
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline cancels the pipeline on the first error and then waits
// for every stage to finish before returning that error
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Export walks src for frame containers and writes every frame as a PNG
// image into dst, named after the container path, direction and frame
func (e *Editor) Export(src, dst string) error {
	if !e.palette.Loaded() {
		return palette.ErrNotLoaded
	}

	base, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := e.findContainers(ctx, base)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	names := &exportNames{files: make(map[string]string)}

	for i := 0; i < exportWorkers; i++ {
		errc, err := e.exportWorker(ctx, base, dst, names, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
