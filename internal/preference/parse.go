package preference

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/five82/prefcenter/internal/resource"
)

var (
	// ErrDuplicateID is returned when two nodes share an id.
	ErrDuplicateID = errors.New("duplicate node id")
	// ErrDuplicateAccessName is returned when two nodes share an access name.
	ErrDuplicateAccessName = errors.New("duplicate access name")
)

const (
	elementSet   = "PreferenceSet"
	elementItem  = "item"
	elementGroup = "group"

	defaultTreeName = "preferences"
	attrPrefix      = "preference_"
)

// ParseError is a fatal markup error. No tree is returned alongside it.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markup %d:%d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns preference markup into a Tree.
type Parser struct {
	Resources *resource.Table
	Logger    *slog.Logger
}

// Parse reads markup with the given resources and the default logger.
func Parse(r io.Reader, res *resource.Table) (*Tree, error) {
	return Parser{Resources: res}.Parse(r)
}

// Parse builds a tree in one pass. Children are finished before they are
// attached to their parent, and every node lands in the id index.
func (p Parser) Parse(r io.Reader) (*Tree, error) {
	res := p.Resources
	if res == nil {
		res = resource.Empty()
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tree := newTree(defaultTreeName)
	dec := xml.NewDecoder(r)

	var pending []*Builder
	var cursor *Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		line, col := dec.InputPos()
		fail := func(err error) (*Tree, error) {
			return nil, &ParseError{Line: line, Column: col, Err: err}
		}
		if err != nil {
			return fail(err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case elementSet:
				for _, attr := range el.Attr {
					if attrName(attr.Name) != "accessName" {
						continue
					}
					name, err := resolveString(res, attr.Value)
					if err != nil {
						return fail(err)
					}
					if strings.TrimSpace(name) != "" {
						tree.name = name
					}
				}
			case elementItem, elementGroup:
				if cursor != nil {
					pending = append(pending, cursor)
				}
				b := NewBuilder()
				cursor = &b
				for _, attr := range el.Attr {
					if err := p.applyAttr(cursor, res, attr); err != nil {
						return fail(err)
					}
				}
				if cursor.RadioErr != nil {
					tree.problems = append(tree.problems, cursor.RadioErr)
					logger.Warn("radio map unavailable",
						"id", cursor.ID,
						"access_name", cursor.AccessName,
						"error", cursor.RadioErr)
				}
			}

		case xml.EndElement:
			if el.Name.Local != elementItem && el.Name.Local != elementGroup {
				continue
			}
			if cursor == nil {
				continue
			}
			var node *Node
			if el.Name.Local == elementGroup {
				node, err = cursor.BuildGroup()
			} else {
				node, err = cursor.Build()
			}
			if err != nil {
				return fail(err)
			}

			if len(pending) == 0 {
				tree.roots = append(tree.roots, node)
				cursor = nil
			} else {
				parent := pending[len(pending)-1]
				pending = pending[:len(pending)-1]
				parent.AddChild(node)
				cursor = parent
			}
			if err := tree.index(node); err != nil {
				return fail(err)
			}
		}
	}

	return tree, nil
}

func (p Parser) applyAttr(b *Builder, res *resource.Table, attr xml.Attr) error {
	value := attr.Value
	var err error
	switch attrName(attr.Name) {
	case "id":
		b.ID, err = resolveID(res, value)
	case "accessName":
		b.AccessName, err = resolveString(res, value)
	case "type":
		var ordinal string
		ordinal, err = resolveString(res, value)
		b.Kind = ParseKind(ordinal)
	case "icon":
		b.Icon, err = resolveString(res, value)
	case "title":
		b.Title, err = resolveString(res, value)
	case "defaultValue":
		b.DefaultValue, err = resolveString(res, value)
	case "description":
		b.Description, err = resolveString(res, value)
	case "detailedDescription":
		b.DetailedDescription, err = resolveString(res, value)
	case "enabled":
		b.Enabled, err = resolveBool(res, value, true)
	case "switchUsage":
		b.SwitchUsage, err = resolveBool(res, value, true)
	case "switchDefaultValue":
		b.SwitchDefault, err = resolveBool(res, value, true)
	case "inputType":
		b.InputType, err = resolveInt(res, value, InputTypeText)
	case "radioMap", "radioMapResource":
		b.RadioEntries, b.RadioErr = loadRadioMap(res, value)
	case "maxValue":
		b.SeekBar.Max, err = resolveInt(res, value, 100)
	case "minValue":
		b.SeekBar.Min, err = resolveInt(res, value, 0)
	case "replaceIcon":
		b.SeekBar.ReplaceIcon, err = resolveBool(res, value, true)
	case "muteUsage":
		b.SeekBar.MuteUsage, err = resolveBool(res, value, false)
	}
	if err != nil {
		return fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
	}
	return nil
}

func loadRadioMap(res *resource.Table, value string) ([]RadioInfo, error) {
	ref, ok := resource.ParseRef(value)
	if !ok {
		ref = resource.Ref{Type: resource.TypeXML, Name: strings.TrimSpace(value)}
	}
	rc, err := res.OpenXML(ref)
	if err != nil {
		return nil, &RadioMapError{Resource: ref.String(), Err: err}
	}
	defer rc.Close()
	return ParseRadioMap(rc, res, ref.String())
}

// attrName returns the local attribute name without the Android-style prefix.
func attrName(name xml.Name) string {
	return strings.TrimPrefix(name.Local, attrPrefix)
}

// resolveString resolves a reference first and falls back to the literal.
func resolveString(res *resource.Table, value string) (string, error) {
	if ref, ok := resource.ParseRef(value); ok {
		return res.String(ref)
	}
	return value, nil
}

func resolveBool(res *resource.Table, value string, def bool) (bool, error) {
	if ref, ok := resource.ParseRef(value); ok {
		return res.Bool(ref)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def, nil
	}
	return v, nil
}

func resolveInt(res *resource.Table, value string, def int) (int, error) {
	if ref, ok := resource.ParseRef(value); ok {
		return res.Integer(ref)
	}
	v, err := parseInt(value)
	if err != nil {
		return def, nil
	}
	return v, nil
}

func resolveID(res *resource.Table, value string) (int, error) {
	if ref, ok := resource.ParseRef(value); ok {
		return res.Integer(resource.Ref{Type: resource.TypeInteger, Name: ref.Name})
	}
	v, err := parseInt(value)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return v, nil
}
