package preference

import (
	"errors"
)

// ErrEventConfigured is returned when an event's execution mode is set twice.
var ErrEventConfigured = errors.New("event already configured")

// Capability is implemented by every optional facet of a node. A node always
// holds each capability; Valid reports whether it applies.
type Capability interface {
	Enabled() bool
	Valid() bool
}

var (
	_ Capability = (*Switch)(nil)
	_ Capability = (*Input)(nil)
	_ Capability = (*Radio)(nil)
	_ Capability = (*SeekBar)(nil)
	_ Capability = (*Intent)(nil)
	_ Capability = (*Event)(nil)
)

// Switch is the on/off toggle shown beside a node.
type Switch struct {
	enabled        bool
	checked        bool
	defaultChecked bool
}

func newSwitch(enabled, defaultChecked bool) *Switch {
	return &Switch{enabled: enabled, defaultChecked: defaultChecked}
}

func (s *Switch) Enabled() bool        { return s.enabled }
func (s *Switch) Valid() bool          { return s.enabled }
func (s *Switch) Checked() bool        { return s.checked }
func (s *Switch) SetChecked(v bool)    { s.checked = v }
func (s *Switch) Toggle()              { s.checked = !s.checked }
func (s *Switch) DefaultChecked() bool { return s.defaultChecked }

// InputTypeText is the default input type for Text nodes.
const InputTypeText = 1

// Input describes the free-text editor of a Text node.
type Input struct {
	enabled   bool
	inputType int
}

func (in *Input) Enabled() bool  { return in.enabled }
func (in *Input) Valid() bool    { return in.enabled }
func (in *Input) InputType() int { return in.inputType }

// RadioInfo is one entry of a radio map. Index is the declaration order.
type RadioInfo struct {
	Index       int
	Key         string
	Title       string
	Description string
}

// Radio is an ordered, immutable key to RadioInfo map.
type Radio struct {
	enabled bool
	entries []RadioInfo
	byKey   map[string]int
	err     error
}

func newRadio(entries []RadioInfo, err error) *Radio {
	r := &Radio{err: err}
	if err != nil || entries == nil {
		return r
	}
	r.enabled = true
	r.entries = entries
	r.byKey = make(map[string]int, len(entries))
	for i, e := range entries {
		r.byKey[e.Key] = i
	}
	return r
}

func (r *Radio) Enabled() bool { return r.enabled }
func (r *Radio) Valid() bool   { return r.enabled && len(r.entries) > 0 }

// Err returns the radio map parse failure, if any.
func (r *Radio) Err() error { return r.err }

// Len returns the number of entries.
func (r *Radio) Len() int { return len(r.entries) }

// Entries returns a copy of the entries in declaration order.
func (r *Radio) Entries() []RadioInfo {
	out := make([]RadioInfo, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry with the given key.
func (r *Radio) Lookup(key string) (RadioInfo, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return RadioInfo{}, false
	}
	return r.entries[i], true
}

// At returns the entry at index.
func (r *Radio) At(index int) (RadioInfo, bool) {
	if index < 0 || index >= len(r.entries) {
		return RadioInfo{}, false
	}
	return r.entries[index], true
}

// First returns the first declared entry.
func (r *Radio) First() (RadioInfo, bool) {
	return r.At(0)
}

// SeekBar is an integer slider bounded by [Min, Max].
type SeekBar struct {
	enabled      bool
	min          int
	max          int
	defaultValue int
	progress     int
	progressRaw  int
	replaceIcon  bool
	muteUsage    bool
	muted        bool
}

// SeekBarSpec carries the markup attributes of a seek bar.
type SeekBarSpec struct {
	Max         int
	Min         int
	ReplaceIcon bool
	MuteUsage   bool
}

// DefaultSeekBarSpec returns the attribute defaults applied when markup omits them.
func DefaultSeekBarSpec() SeekBarSpec {
	return SeekBarSpec{Max: 100, Min: 0, ReplaceIcon: true}
}

func newSeekBar(enabled bool, defaultValue string, spec SeekBarSpec) *SeekBar {
	sb := &SeekBar{
		enabled:     enabled,
		min:         spec.Min,
		max:         spec.Max,
		replaceIcon: spec.ReplaceIcon,
		muteUsage:   spec.MuteUsage,
	}
	sb.defaultValue = (spec.Max + spec.Min) / 2
	if defaultValue != "" {
		if n, err := parseInt(defaultValue); err == nil {
			sb.defaultValue = n
		}
	}
	sb.ResetToDefault()
	return sb
}

func (sb *SeekBar) Enabled() bool { return sb.enabled }
func (sb *SeekBar) Valid() bool   { return sb.enabled && sb.max > sb.min }

func (sb *SeekBar) Min() int          { return sb.min }
func (sb *SeekBar) Max() int          { return sb.max }
func (sb *SeekBar) DefaultValue() int { return sb.defaultValue }
func (sb *SeekBar) Progress() int     { return sb.progress }
func (sb *SeekBar) ProgressRaw() int  { return sb.progressRaw }
func (sb *SeekBar) ReplaceIcon() bool { return sb.replaceIcon }
func (sb *SeekBar) MuteUsage() bool   { return sb.muteUsage }
func (sb *SeekBar) Muted() bool       { return sb.muted }
func (sb *SeekBar) SetMuted(v bool)   { sb.muted = v }
func (sb *SeekBar) ToggleMute()       { sb.muted = !sb.muted }

// SetProgress records v as the raw value and its clamped form as progress.
func (sb *SeekBar) SetProgress(v int) {
	sb.progressRaw = v
	sb.progress = sb.clamp(v)
}

// SetProgressRaw records v without touching progress.
func (sb *SeekBar) SetProgressRaw(v int) {
	sb.progressRaw = v
}

// ResetToDefault moves progress back to the default value.
func (sb *SeekBar) ResetToDefault() {
	sb.SetProgress(sb.defaultValue)
}

// Effective returns Min while muted, otherwise the clamped progress.
func (sb *SeekBar) Effective() int {
	if sb.muted {
		return sb.min
	}
	return sb.clamp(sb.progress)
}

func (sb *SeekBar) clamp(v int) int {
	if v > sb.max {
		v = sb.max
	}
	if v < sb.min {
		v = sb.min
	}
	return v
}

// Intent opens an external target supplied by the consumer.
type Intent struct {
	enabled bool
	launch  func() error
}

func (it *Intent) Enabled() bool { return it.enabled }
func (it *Intent) Valid() bool   { return it.enabled }

// SetLauncher installs the function that opens the target.
func (it *Intent) SetLauncher(fn func() error) { it.launch = fn }

// Launchable reports whether Launch has something to run.
func (it *Intent) Launchable() bool { return it.Valid() && it.launch != nil }

// Dispatcher runs callbacks on the consumer's main thread.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Event runs a consumer callback when the node is activated.
type Event struct {
	enabled    bool
	configured bool
	dispatcher Dispatcher
	fn         func()
}

func (ev *Event) Enabled() bool { return ev.enabled }
func (ev *Event) Valid() bool   { return ev.enabled && ev.fn != nil }

// Configure fixes the callback and its execution mode. A nil dispatcher runs
// the callback on its own goroutine.
func (ev *Event) Configure(d Dispatcher, fn func()) error {
	if ev.configured {
		return ErrEventConfigured
	}
	ev.configured = true
	ev.dispatcher = d
	ev.fn = fn
	return nil
}

// OnMainThread reports whether the callback is posted through a dispatcher.
func (ev *Event) OnMainThread() bool { return ev.dispatcher != nil }

// Fire starts the callback and returns without waiting for it.
func (ev *Event) Fire() bool {
	if !ev.Valid() {
		return false
	}
	if ev.dispatcher != nil {
		ev.dispatcher.Post(ev.fn)
		return true
	}
	go ev.fn()
	return true
}
