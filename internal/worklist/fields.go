package worklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/mhtools/mhwork/internal/convert"
	"github.com/mhtools/mhwork/internal/xmltree"
)

// fieldReader reads typed child values off one element and remembers the
// first failure, so a decoder can read every field and check once.
type fieldReader struct {
	el  *etree.Element
	err error
}

func newFieldReader(el *etree.Element) *fieldReader {
	return &fieldReader{el: el}
}

func (r *fieldReader) raw(tag string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	s, err := xmltree.Text(r.el, tag)
	if err != nil {
		r.err = err
		return "", false
	}
	return s, true
}

func (r *fieldReader) fail(tag string, err error) {
	r.err = fmt.Errorf("<%s>/<%s>: %w", r.el.Tag, tag, err)
}

func (r *fieldReader) text(tag string) string {
	s, _ := r.raw(tag)
	return strings.TrimSpace(s)
}

func (r *fieldReader) int(tag string) int {
	s, ok := r.raw(tag)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		r.fail(tag, err)
		return 0
	}
	return n
}

func (r *fieldReader) float(tag string) float64 {
	s, ok := r.raw(tag)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		r.fail(tag, err)
		return 0
	}
	return f
}

func (r *fieldReader) bool(tag string) bool {
	s, ok := r.raw(tag)
	if !ok {
		return false
	}
	b, err := convert.ParseBool(s)
	if err != nil {
		r.fail(tag, err)
		return false
	}
	return b
}

// path returns nil for a blank path, like the Path column type.
func (r *fieldReader) path(tag string) *convert.WindowsPath {
	p, ok := convert.AsPath(r.text(tag)).(convert.WindowsPath)
	if !ok {
		return nil
	}
	return &p
}

func (r *fieldReader) child(tag string) *etree.Element {
	if r.err != nil {
		return nil
	}
	c, err := xmltree.Child(r.el, tag)
	if err != nil {
		r.err = err
		return nil
	}
	return c
}
