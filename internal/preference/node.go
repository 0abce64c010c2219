package preference

import (
	"strconv"
	"strings"
)

// Node is one entry of a preference tree. Nodes are created by Builder and
// never re-parented.
type Node struct {
	id                  int
	accessName          string
	kind                Kind
	icon                string
	title               string
	description         string
	detailedDescription string
	enabled             bool
	defaultValue        string

	value       string
	valueSet    bool
	valueRaw    string
	valueRawSet bool

	children []*Node

	sw      *Switch
	input   *Input
	radio   *Radio
	seekBar *SeekBar
	intent  *Intent
	event   *Event
}

func (n *Node) ID() int                     { return n.id }
func (n *Node) AccessName() string          { return n.accessName }
func (n *Node) Kind() Kind                  { return n.kind }
func (n *Node) Icon() string                { return n.icon }
func (n *Node) Title() string               { return n.title }
func (n *Node) SetTitle(v string)           { n.title = v }
func (n *Node) Description() string         { return n.description }
func (n *Node) SetDescription(v string)     { n.description = v }
func (n *Node) DetailedDescription() string { return n.detailedDescription }
func (n *Node) SetDetailedDescription(v string) {
	n.detailedDescription = v
}
func (n *Node) Enabled() bool        { return n.enabled }
func (n *Node) SetEnabled(v bool)    { n.enabled = v }
func (n *Node) DefaultValue() string { return n.defaultValue }

// Value returns the display value, or the default when none was set.
func (n *Node) Value() string {
	if !n.valueSet {
		return n.defaultValue
	}
	return n.value
}

func (n *Node) SetValue(v string) {
	n.value = v
	n.valueSet = true
}

// ValueRaw returns the unprocessed value, or the default when none was set.
func (n *Node) ValueRaw() string {
	if !n.valueRawSet {
		return n.defaultValue
	}
	return n.valueRaw
}

func (n *Node) SetValueRaw(v string) {
	n.valueRaw = v
	n.valueRawSet = true
}

// ClearValues drops both values so they read as the default again.
func (n *Node) ClearValues() {
	n.value, n.valueSet = "", false
	n.valueRaw, n.valueRawSet = "", false
}

// Children returns the child nodes in document order.
func (n *Node) Children() []*Node {
	return n.children
}

// HasChildren reports whether the node opens a sub screen.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// SetChildrenEnabled enables or disables every direct child.
func (n *Node) SetChildrenEnabled(enabled bool) {
	for _, child := range n.children {
		child.enabled = enabled
	}
}

func (n *Node) Switch() *Switch   { return n.sw }
func (n *Node) Input() *Input     { return n.input }
func (n *Node) Radio() *Radio     { return n.radio }
func (n *Node) SeekBar() *SeekBar { return n.seekBar }
func (n *Node) Intent() *Intent   { return n.intent }
func (n *Node) Event() *Event     { return n.event }

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
