package preference

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Builder collects the attributes of one node. The zero value is not ready
// for use; start from NewBuilder so defaults match the markup defaults.
type Builder struct {
	ID                  int    `validate:"required"`
	AccessName          string `validate:"required"`
	Kind                Kind   `validate:"gte=0,lte=5"`
	Icon                string
	Title               string
	Description         string
	DetailedDescription string
	Enabled             bool
	DefaultValue        string

	SwitchUsage   bool
	SwitchDefault bool
	InputType     int

	// RadioEntries is set when a radio map was parsed; RadioErr when parsing
	// it failed.
	RadioEntries []RadioInfo
	RadioErr     error

	SeekBar SeekBarSpec

	children []*Node
}

// NewBuilder returns a builder holding the markup defaults.
func NewBuilder() Builder {
	return Builder{
		Enabled:   true,
		InputType: InputTypeText,
		SeekBar:   DefaultSeekBarSpec(),
	}
}

// AddChild appends a finished child node.
func (b *Builder) AddChild(n *Node) {
	b.children = append(b.children, n)
}

// Build validates the builder and converts it into a node.
func (b Builder) Build() (*Node, error) {
	if err := validate.Struct(b); err != nil {
		return nil, fmt.Errorf("node %d (%q): %w", b.ID, b.AccessName, err)
	}
	n := &Node{
		id:                  b.ID,
		accessName:          b.AccessName,
		kind:                b.Kind,
		icon:                b.Icon,
		title:               b.Title,
		description:         b.Description,
		detailedDescription: b.DetailedDescription,
		enabled:             b.Enabled,
		defaultValue:        b.DefaultValue,
		children:            b.children,
	}
	n.sw = newSwitch(b.SwitchUsage && b.Kind.SwitchAvailable(), b.SwitchDefault)
	n.input = &Input{enabled: b.Kind == KindText, inputType: b.InputType}
	n.radio = newRadio(b.RadioEntries, b.RadioErr)
	n.seekBar = newSeekBar(b.Kind == KindSeekBar, b.DefaultValue, b.SeekBar)
	n.intent = &Intent{enabled: b.Kind == KindIntent}
	n.event = &Event{enabled: b.Kind == KindEvent}
	return n, nil
}

// BuildGroup builds the node as a container, which is always Explain.
func (b Builder) BuildGroup() (*Node, error) {
	b.Kind = KindExplain
	return b.Build()
}
