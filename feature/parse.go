package feature

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

var (
	reResolution = regexp.MustCompile(`(?i)^resolution(?:\s+(.*))?$`)
	reAutocursor = regexp.MustCompile(`(?i)^autocursor\b`)
	reBinding    = regexp.MustCompile(`^([^=\s]+)\s*=\s*(.*)$`)
	reComment    = regexp.MustCompile(`\s+[#;].*$`)
)

// ParseError describes a problem with one line of input
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Diagnostics collects the problems found while parsing
type Diagnostics []*ParseError

func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no errors"
	case 1:
		return d[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", d[0].Error(), len(d)-1)
}

type parser struct {
	d     *Dictionary
	diags Diagnostics
	scope *Bindings
	line  int
}

func (p *parser) errorf(format string, a ...interface{}) {
	p.diags = append(p.diags, &ParseError{Line: p.line, Msg: fmt.Sprintf(format, a...)})
}

func (p *parser) parseResolution(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		p.errorf("resolution needs a width and a height")
		p.scope = new(Bindings)
		return
	}
	w, err1 := strconv.Atoi(fields[0])
	h, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		p.errorf("bad resolution %q", args)
		p.scope = new(Bindings)
		return
	}
	p.scope = &p.d.AddOverlay(Resolution{w, h}).Bindings
}

func (p *parser) parseLine(s string) {
	s = strings.TrimSpace(s)

	switch {
	case s == "", s[0] == '#', s[0] == ';':
		return
	case reAutocursor.MatchString(s):
		return
	}

	if m := reResolution.FindStringSubmatch(s); m != nil {
		p.parseResolution(reComment.ReplaceAllString(m[1], ""))
		return
	}

	m := reBinding.FindStringSubmatch(s)
	if m == nil {
		p.errorf("unrecognised line %q", s)
		return
	}

	k, ok := Lookup(m[1])
	if !ok {
		p.errorf("unknown key %q", m[1])
		return
	}

	// Text may contain comment characters, everything else ends at a
	// trailing comment
	value := m[2]
	if k.Kind() != KindText {
		value = reComment.ReplaceAllString(value, "")
	}

	v, err := ParseValue(k, value)
	if err != nil {
		p.errorf("%s: %v", k, err)
		return
	}

	p.scope.Set(k, v)
}

// Parse reads a dictionary from its text form. Problems with individual
// lines do not stop parsing; they are returned as diagnostics alongside the
// dictionary built from the remaining lines. The error is only set if r
// could not be read.
func Parse(r io.Reader) (*Dictionary, Diagnostics, error) {
	p := parser{d: New()}
	p.scope = &p.d.Common

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		p.line++
		p.parseLine(s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, nil, err
	}

	return p.d, p.diags, nil
}

// ParseFile parses the named file. If enc is not nil the file is decoded
// from that character encoding first, otherwise it is assumed to be UTF-8.
func ParseFile(name string, enc encoding.Encoding) (*Dictionary, Diagnostics, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if enc != nil {
		r = enc.NewDecoder().Reader(f)
	}

	return Parse(r)
}
