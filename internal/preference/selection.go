package preference

// None is the selection index meaning nothing is checked.
const None = -1

// Toggler mirrors checked state onto whatever represents the radio entries.
type Toggler interface {
	SetChecked(index int, checked bool)
}

// TogglerFunc adapts a function to Toggler.
type TogglerFunc func(index int, checked bool)

func (f TogglerFunc) SetChecked(index int, checked bool) { f(index, checked) }

// Selection tracks the single checked entry of a radio node.
type Selection struct {
	checked int
	toggler Toggler
}

// NewSelection starts with nothing checked. t may be nil.
func NewSelection(t Toggler) *Selection {
	return &Selection{checked: None, toggler: t}
}

// RestoreSelection positions a selection on the entry whose key matches the
// node's raw value, without touching the toggler.
func RestoreSelection(n *Node, t Toggler) *Selection {
	sel := NewSelection(t)
	if !n.Radio().Valid() {
		return sel
	}
	if info, ok := n.Radio().Lookup(n.ValueRaw()); ok {
		sel.SetIndexOnly(info.Index)
	}
	return sel
}

// Checked returns the checked index or None.
func (s *Selection) Checked() int { return s.checked }

// Check moves the selection to index and reports whether anything changed.
func (s *Selection) Check(index int) bool {
	if index == s.checked {
		return false
	}
	if s.checked != None {
		s.toggle(s.checked, false)
	}
	if index != None {
		s.toggle(index, true)
	}
	s.checked = index
	return true
}

// SetIndexOnly records index without notifying the toggler. None is ignored.
func (s *Selection) SetIndexOnly(index int) {
	if index != None {
		s.checked = index
	}
}

func (s *Selection) toggle(index int, checked bool) {
	if s.toggler != nil {
		s.toggler.SetChecked(index, checked)
	}
}
