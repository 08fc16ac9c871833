package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/ifedit"
	"github.com/bodgit/ifedit/feature"
	"github.com/bodgit/ifedit/frm"
	"github.com/bodgit/ifedit/palette"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	defaultDB      = "ifedit.db"
	defaultPalette = "color.pal"
)

var errDiagnostics = errors.New("dictionary has errors")

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func newEditor(c *cli.Context, d *feature.Dictionary) (*ifedit.Editor, error) {
	logger := newLogger(c)

	p, err := palette.Open(os.DirFS(c.String("data")), c.String("palette"))
	switch {
	case err != nil:
		logger.Warnf("Palette \"%s\" in \"%s\" not loaded: %s", c.String("palette"), c.String("data"), err)
	case !p.Loaded():
		logger.Warnf("No palette \"%s\" in \"%s\"", c.String("palette"), c.String("data"))
	}

	if d == nil {
		d = feature.New()
	}

	return ifedit.New(c.String("data"), p, d, logger), nil
}

func parseDictionary(c *cli.Context, file string) (*feature.Dictionary, feature.Diagnostics, error) {
	enc, err := feature.Charset(c.String("charset"))
	if err != nil {
		return nil, nil, err
	}
	return feature.ParseFile(file, enc)
}

func parseResolution(s string) (feature.Resolution, error) {
	var res feature.Resolution
	if _, err := fmt.Sscanf(s, "%dx%d", &res.Width, &res.Height); err != nil {
		return res, fmt.Errorf("bad resolution %q", s)
	}
	if res.Width <= 0 || res.Height <= 0 {
		return res, fmt.Errorf("bad resolution %q", s)
	}
	return res, nil
}

func check(c *cli.Context) error {
	d, diags, err := parseDictionary(c, c.Args().First())
	if err != nil {
		return err
	}
	for _, diag := range diags {
		fmt.Fprintln(c.App.Writer, diag)
	}

	e, err := newEditor(c, d)
	if err != nil {
		return err
	}

	if err := d.Walk(func(b feature.Binding) error {
		ref, ok := b.Value.(feature.ImageRef)
		if !ok {
			return nil
		}
		fc, err := e.Frames(ref)
		if err != nil {
			return err
		}
		if len(fc.Frames) == 0 {
			fmt.Fprintf(c.App.Writer, "%s: %s: no frames\n", b.Key, ref.Path)
			return nil
		}
		fmt.Fprintf(c.App.Writer, "%s: %s: %d frames, %s\n", b.Key, ref.Path, len(fc.Frames), humanize.Bytes(uint64(fc.FrameSize)))
		return nil
	}); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s errors\n", humanize.Comma(int64(len(diags))))
	if len(diags) > 0 {
		return errDiagnostics
	}
	return nil
}

func importImages(c *cli.Context) error {
	e, err := newEditor(c, nil)
	if err != nil {
		return err
	}

	return e.Import(c.Args().First(), c.Args().Tail(), frm.Options{
		FPS:                uint16(c.Uint("fps")),
		ActionFrame:        uint16(c.Uint("action")),
		FramesPerDirection: c.Int("fpd"),
		Offset:             image.Pt(c.Int("offset-x"), c.Int("offset-y")),
	})
}

func generatePalette(c *cli.Context) error {
	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return err
	}

	b, err := palette.Generate(m).MarshalBinary()
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.Args().Get(1), b, 0644); err != nil {
		return err
	}
	newLogger(c).Infof("Wrote \"%s\", %s", c.Args().Get(1), humanize.Bytes(uint64(len(b))))

	return nil
}

func snapshot(c *cli.Context) error {
	d, diags, err := parseDictionary(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		newLogger(c).Warnf("%d lines ignored", len(diags))
	}

	db, err := ifedit.NewSnapshotDB(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Save(c.Args().Get(1), d)
}

func diff(c *cli.Context) error {
	db, err := ifedit.NewSnapshotDB(c.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	changes, err := db.Diff(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}

	for _, change := range changes {
		fmt.Fprintln(c.App.Writer, change)
	}

	return nil
}

func place(c *cli.Context) error {
	d, _, err := parseDictionary(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	k, ok := feature.Lookup(c.Args().Get(1))
	if !ok {
		return fmt.Errorf("unknown key %q", c.Args().Get(1))
	}

	res, err := parseResolution(c.Args().Get(2))
	if err != nil {
		return err
	}

	mode := feature.Base
	if c.Bool("derived") {
		mode = feature.Derived
	}

	e, err := newEditor(c, d)
	if err != nil {
		return err
	}

	p, ok, err := e.Placement(k, mode, res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not bound", k)
	}

	fmt.Fprintf(c.App.Writer, "rect %s\n", feature.RectangleFromVec4(p.Rect))
	fmt.Fprintf(c.App.Writer, "size %dx%d\n", p.Width, p.Height)
	fmt.Fprintf(c.App.Writer, "midpoint %g %g\n", p.Midpoint.X(), p.Midpoint.Y())
	for _, v := range p.Quad {
		fmt.Fprintf(c.App.Writer, "ndc %g %g\n", v.X(), v.Y())
	}

	return nil
}

// action wraps fn with an argument count check and exit code handling
func action(n int, fn cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		if err := fn(c); err != nil {
			return cli.Exit(err, 1)
		}

		return nil
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "ifedit"
	app.Usage = "Interface definition and frame container editing utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IFEDIT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to snapshot database",
		},
		&cli.StringFlag{
			Name:    "data",
			EnvVars: []string{"IFEDIT_DATA"},
			Value:   cwd,
			Usage:   "directory that image paths are relative to",
		},
		&cli.StringFlag{
			Name:    "palette",
			EnvVars: []string{"IFEDIT_PALETTE"},
			Value:   defaultPalette,
			Usage:   "palette resource within the data directory",
		},
		&cli.StringFlag{
			Name:    "charset",
			EnvVars: []string{"IFEDIT_CHARSET"},
			Usage:   "character set of dictionary files, e.g. cp1252",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "check",
			Usage:     "Parse a dictionary and report errors and missing pictures",
			ArgsUsage: "FILE",
			Action:    action(1, check),
		},
		{
			Name:      "export",
			Usage:     "Export every frame container under a directory as PNG images",
			ArgsUsage: "SOURCE TARGET",
			Action: action(2, func(c *cli.Context) error {
				e, err := newEditor(c, nil)
				if err != nil {
					return err
				}
				return e.Export(c.Args().Get(0), c.Args().Get(1))
			}),
		},
		{
			Name:      "import",
			Usage:     "Build a frame container from images",
			ArgsUsage: "OUTPUT IMAGE...",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "fps",
					Value: 10,
					Usage: "frames per second",
				},
				&cli.UintFlag{
					Name:  "action",
					Usage: "action frame",
				},
				&cli.IntFlag{
					Name:  "fpd",
					Usage: "frames per direction, 0 puts every image in one direction",
				},
				&cli.IntFlag{
					Name:  "offset-x",
					Usage: "horizontal offset of every frame",
				},
				&cli.IntFlag{
					Name:  "offset-y",
					Usage: "vertical offset of every frame",
				},
			},
			Action: action(2, importImages),
		},
		{
			Name:      "palette",
			Usage:     "Generate a palette from the colors in an image",
			ArgsUsage: "IMAGE OUTPUT",
			Action:    action(2, generatePalette),
		},
		{
			Name:      "snapshot",
			Usage:     "Store a dictionary in the snapshot database",
			ArgsUsage: "FILE NAME",
			Action:    action(2, snapshot),
		},
		{
			Name:      "diff",
			Usage:     "List the bindings that differ between two snapshots",
			ArgsUsage: "FROM TO",
			Action:    action(2, diff),
		},
		{
			Name:      "place",
			Usage:     "Show where a rectangle lands on a screen",
			ArgsUsage: "FILE KEY WIDTHxHEIGHT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "derived",
					Usage: "resolve from the overlay for the screen resolution",
				},
			},
			Action: action(3, place),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
