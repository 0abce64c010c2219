// Package resource resolves "@type/name" references used by preference markup.
//
// A resource table is a TOML document with one section per resource type:
//
//	[string]
//	theme_title = "Theme"
//
//	[bool]
//	dark_default = true
//
//	[integer]
//	theme_id = 10
//	volume_max = 15
//
//	[xml]
//	theme_options = "radio/theme.xml"
//
//	[drawable]
//	theme_icon = "palette"
//
// XML entries name files relative to the filesystem the table was loaded from.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ErrNotFound is returned when a reference names a missing resource.
var ErrNotFound = errors.New("resource not found")

// Type is the resource type named by a reference.
type Type string

const (
	TypeString   Type = "string"
	TypeBool     Type = "bool"
	TypeInteger  Type = "integer"
	TypeXML      Type = "xml"
	TypeDrawable Type = "drawable"
)

// Ref is a parsed "@type/name" reference.
type Ref struct {
	Type Type
	Name string
}

func (r Ref) String() string {
	return "@" + string(r.Type) + "/" + r.Name
}

// ParseRef reports whether value is a reference and returns it.
func ParseRef(value string) (Ref, bool) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "@") {
		return Ref{}, false
	}
	kind, name, ok := strings.Cut(trimmed[1:], "/")
	if !ok || kind == "" || name == "" {
		return Ref{}, false
	}
	return Ref{Type: Type(strings.TrimPrefix(kind, "+")), Name: name}, true
}

// Table holds resolved resource values.
type Table struct {
	Strings   map[string]string `toml:"string"`
	Bools     map[string]bool   `toml:"bool"`
	Integers  map[string]int    `toml:"integer"`
	XML       map[string]string `toml:"xml"`
	Drawables map[string]string `toml:"drawable"`

	fsys fs.FS
}

// Empty returns a table with no entries. XML references cannot be opened.
func Empty() *Table {
	return &Table{}
}

// Load reads the resource table name from fsys. XML paths resolve against fsys.
func Load(fsys fs.FS, name string) (*Table, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read resources: %w", err)
	}
	var table Table
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse resources: %w", err)
	}
	table.fsys = fsys
	return &table, nil
}

// WithFS returns a copy of t that opens XML resources from fsys.
func (t *Table) WithFS(fsys fs.FS) *Table {
	dup := *t
	dup.fsys = fsys
	return &dup
}

// String resolves a string reference. Drawable references resolve to their
// name so icons stay opaque to the caller.
func (t *Table) String(ref Ref) (string, error) {
	switch ref.Type {
	case TypeString:
		if v, ok := t.Strings[ref.Name]; ok {
			return v, nil
		}
	case TypeDrawable:
		if v, ok := t.Drawables[ref.Name]; ok {
			return v, nil
		}
		return ref.Name, nil
	case TypeInteger:
		if v, ok := t.Integers[ref.Name]; ok {
			return fmt.Sprint(v), nil
		}
	case TypeBool:
		if v, ok := t.Bools[ref.Name]; ok {
			return fmt.Sprint(v), nil
		}
	}
	return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// Bool resolves a bool reference.
func (t *Table) Bool(ref Ref) (bool, error) {
	if ref.Type == TypeBool {
		if v, ok := t.Bools[ref.Name]; ok {
			return v, nil
		}
	}
	return false, fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// Integer resolves an integer reference.
func (t *Table) Integer(ref Ref) (int, error) {
	if ref.Type == TypeInteger {
		if v, ok := t.Integers[ref.Name]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// OpenXML opens the markup document registered under an xml reference.
func (t *Table) OpenXML(ref Ref) (io.ReadCloser, error) {
	if ref.Type != TypeXML {
		return nil, fmt.Errorf("%s: not an xml reference", ref)
	}
	path, ok := t.XML[ref.Name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if t.fsys == nil {
		return nil, fmt.Errorf("%s: no filesystem for xml resources", ref)
	}
	file, err := t.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return file, nil
}
