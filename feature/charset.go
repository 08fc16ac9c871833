package feature

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Charset returns the encoding for a charset name as accepted on the
// command line. UTF-8 is returned as nil as it needs no conversion.
func Charset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	case "cp1251", "windows-1251":
		return charmap.Windows1251, nil
	case "cp437":
		return charmap.CodePage437, nil
	case "cp866":
		return charmap.CodePage866, nil
	}
	return nil, fmt.Errorf("feature: unknown charset %q", name)
}
