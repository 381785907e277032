// Package xmltree loads XML documents into navigable element trees and
// provides the required-child accessors the decoders build on.
package xmltree

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// ErrNotFound is wrapped by Load when the file does not exist.
var ErrNotFound = errors.New("file not found")

// SyntaxError reports a file that exists but is not well-formed XML.
type SyntaxError struct {
	Path string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed XML: %v", e.Err)
	}
	return fmt.Sprintf("malformed XML in %s: %v", e.Path, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// MissingElementError reports an expected child element or attribute that
// is absent.
type MissingElementError struct {
	Parent string
	Name   string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("element <%s> has no %s", e.Parent, e.Name)
}

// Load reads path and returns its root element.
func Load(path string) (*etree.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("'%s' does not exist: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	root, err := Parse(data)
	if err != nil {
		var syntaxErr *SyntaxError
		if errors.As(err, &syntaxErr) {
			syntaxErr.Path = path
		}
		return nil, err
	}
	return root, nil
}

// Parse builds an element tree from data and returns its root element.
func Parse(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &SyntaxError{Err: errors.New("document has no root element")}
	}
	return root, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*etree.Element, error) {
	return Parse([]byte(s))
}

// Child returns the first child of parent named tag.
func Child(parent *etree.Element, tag string) (*etree.Element, error) {
	child := parent.SelectElement(tag)
	if child == nil {
		return nil, &MissingElementError{Parent: parent.Tag, Name: "<" + tag + ">"}
	}
	return child, nil
}

// Text returns the character data of the child named tag. The text is not
// trimmed.
func Text(parent *etree.Element, tag string) (string, error) {
	child, err := Child(parent, tag)
	if err != nil {
		return "", err
	}
	return child.Text(), nil
}

// TrimmedText is Text with surrounding whitespace removed.
func TrimmedText(parent *etree.Element, tag string) (string, error) {
	s, err := Text(parent, tag)
	return strings.TrimSpace(s), err
}

// Attr returns the value of the attribute key on el.
func Attr(el *etree.Element, key string) (string, error) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", &MissingElementError{Parent: el.Tag, Name: "attribute " + key}
	}
	return a.Value, nil
}
