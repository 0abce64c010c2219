package preference

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/five82/prefcenter/internal/resource"
)

// ErrEmptyRadioKey is returned when a radio entry declares an empty key.
var ErrEmptyRadioKey = errors.New("radio entry key must not be empty")

// RadioMapError reports a radio map resource that could not be parsed.
type RadioMapError struct {
	Resource string
	Line     int
	Err      error
}

func (e *RadioMapError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("radio map %s:%d: %v", e.Resource, e.Line, e.Err)
	}
	return fmt.Sprintf("radio map %s: %v", e.Resource, e.Err)
}

func (e *RadioMapError) Unwrap() error { return e.Err }

// ParseRadioMap reads repeated entry elements with key, title and description
// attributes. Entries without a title are skipped; an empty key fails the
// whole map. Duplicate keys keep their first position and take the later title.
func ParseRadioMap(r io.Reader, res *resource.Table, name string) ([]RadioInfo, error) {
	if res == nil {
		res = resource.Empty()
	}
	dec := xml.NewDecoder(r)
	entries := make([]RadioInfo, 0)
	index := make(map[string]int)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		line, _ := dec.InputPos()
		if err != nil {
			return nil, &RadioMapError{Resource: name, Line: line, Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var key, title, description *string
		for _, attr := range start.Attr {
			var target **string
			switch attrName(attr.Name) {
			case "key":
				target = &key
			case "title":
				target = &title
			case "description":
				target = &description
			default:
				continue
			}
			value, err := resolveString(res, attr.Value)
			if err != nil {
				return nil, &RadioMapError{Resource: name, Line: line, Err: err}
			}
			*target = &value
		}
		if key == nil || title == nil {
			continue
		}
		if *key == "" {
			return nil, &RadioMapError{Resource: name, Line: line, Err: ErrEmptyRadioKey}
		}
		info := RadioInfo{Key: *key, Title: *title}
		if description != nil {
			info.Description = *description
		}
		if i, dup := index[info.Key]; dup {
			info.Index = i
			entries[i] = info
			continue
		}
		info.Index = len(entries)
		index[info.Key] = info.Index
		entries = append(entries, info)
	}
	return entries, nil
}
