// Package debug has helpers producing human readable dumps for debug report.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	b strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) Bytes() []byte {
	return []byte(tw.b.String())
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.b.WriteString("  ")
	}
}

// Line writes formatted line at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// Field writes "label: value" line. Values with spaces or control characters
// are quoted, empty value is written as "-".
func (tw *TreeWriter) Field(depth int, label, value string) {
	tw.indent(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(encodeValue(value))
	tw.b.WriteByte('\n')
}

func encodeValue(raw string) string {
	if raw == "" {
		return "-"
	}
	if strings.IndexFunc(raw, func(r rune) bool { return unicode.IsSpace(r) || !unicode.IsPrint(r) }) >= 0 {
		return strconv.Quote(raw)
	}
	return raw
}
