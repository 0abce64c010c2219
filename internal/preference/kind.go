package preference

import (
	"strconv"
	"strings"
)

// Kind is the mutually exclusive variant of a node.
type Kind int

const (
	KindExplain Kind = iota
	KindText
	KindRadio
	KindSeekBar
	KindIntent
	KindEvent
)

var kindNames = [...]string{"explain", "text", "radio", "seekBar", "intent", "event"}

func (k Kind) String() string {
	if k < KindExplain || k > KindEvent {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// SwitchAvailable reports whether nodes of this kind may carry a switch.
func (k Kind) SwitchAvailable() bool {
	return k != KindSeekBar && k != KindIntent && k != KindEvent
}

// KindOf maps an ordinal to a kind. Unknown ordinals are Explain.
func KindOf(ordinal int) Kind {
	if ordinal < int(KindExplain) || ordinal > int(KindEvent) {
		return KindExplain
	}
	return Kind(ordinal)
}

// ParseKind accepts an ordinal or a kind name.
func ParseKind(value string) Kind {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return KindOf(n)
	}
	for i, name := range kindNames {
		if strings.EqualFold(name, trimmed) {
			return Kind(i)
		}
	}
	return KindExplain
}
