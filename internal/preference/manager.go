package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/five82/prefcenter/internal/kvstore"
)

// Store key suffixes appended to a node's access name.
const (
	SuffixSwitch     = "_switchValue"
	SuffixContent    = "_contentValue"
	SuffixContentRaw = "_contentValueRaw"
)

// ErrWrongKind is returned when an interaction does not apply to a node.
var ErrWrongKind = errors.New("operation does not apply to this node")

// SaveFlag tells a SaveOptimizer which fields a save call writes.
type SaveFlag int

const (
	SaveAll        SaveFlag = -1
	SaveSwitch     SaveFlag = 1
	SaveContent    SaveFlag = 1 << 1
	SaveContentRaw SaveFlag = 1 << 2
)

// SaveOptimizer runs before every write. It may return a different node, or
// nil to skip the write.
type SaveOptimizer func(m *Manager, n *Node, flag SaveFlag) *Node

func identityOptimizer(_ *Manager, n *Node, _ SaveFlag) *Node { return n }

// Option configures a Manager.
type Option func(*Manager)

// WithSaveOptimizer installs a save hook. nil restores the identity hook.
func WithSaveOptimizer(o SaveOptimizer) Option {
	return func(m *Manager) {
		if o == nil {
			o = identityOptimizer
		}
		m.optimizer = o
	}
}

// WithLogger sets the logger used for reconciliation messages.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithNotifier sets the function that shows transient notices to the user.
func WithNotifier(fn func(msg string)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.notify = fn
		}
	}
}

// Manager binds a tree to a key-value store.
type Manager struct {
	tree      *Tree
	store     kvstore.Store
	optimizer SaveOptimizer
	logger    *slog.Logger
	notify    func(msg string)
}

// New returns a manager for tree backed by store. Values are not loaded until
// LoadAll or Load is called.
func New(tree *Tree, store kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		tree:      tree,
		store:     store,
		optimizer: identityOptimizer,
		logger:    slog.Default(),
	}
	m.notify = func(msg string) { m.logger.Info(msg) }
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Tree() *Tree    { return m.tree }
func (m *Manager) Roots() []*Node { return m.tree.Roots() }

// ByID returns the node registered under id.
func (m *Manager) ByID(id int) (*Node, bool) { return m.tree.ByID(id) }

// LoadAll loads every node in the order the builder finished them.
func (m *Manager) LoadAll(ctx context.Context) error {
	for _, n := range m.tree.finished() {
		if err := m.Load(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// SaveAll writes every node.
func (m *Manager) SaveAll(ctx context.Context) error {
	for _, n := range m.tree.finished() {
		if err := m.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the node's stored values and repairs pairs that no longer fit
// its radio map or seek bar bounds. Repaired pairs are written back.
func (m *Manager) Load(ctx context.Context, n *Node) error {
	checked, err := m.store.Bool(ctx, n.accessName+SuffixSwitch, n.sw.DefaultChecked())
	if err != nil {
		return fmt.Errorf("load %s switch: %w", n.accessName, err)
	}
	n.sw.SetChecked(checked)
	if n.sw.Valid() && n.HasChildren() {
		n.SetChildrenEnabled(checked)
	}

	value, err := m.store.String(ctx, n.accessName+SuffixContent, n.defaultValue)
	if err != nil {
		return fmt.Errorf("load %s content: %w", n.accessName, err)
	}
	raw, err := m.store.String(ctx, n.accessName+SuffixContentRaw, n.defaultValue)
	if err != nil {
		return fmt.Errorf("load %s content raw: %w", n.accessName, err)
	}

	if !reconcile(n, value, raw) {
		return nil
	}
	m.logger.Debug("stored value repaired",
		"access_name", n.accessName,
		"value", n.Value(),
		"raw", n.ValueRaw())
	if err := m.SaveContent(ctx, n); err != nil {
		return err
	}
	return m.SaveContentRaw(ctx, n)
}

// reconcile assigns the stored pair to n and reports whether it had to be
// corrected to fit the node's configuration.
func reconcile(n *Node, value, raw string) bool {
	if n.radio.Valid() {
		if raw != "" {
			if info, ok := n.radio.Lookup(raw); ok {
				n.SetValue(info.Title)
				n.SetValueRaw(info.Key)
				return false
			}
		}
		first, _ := n.radio.First()
		n.SetValueRaw(first.Key)
		n.SetValue(first.Title)
		return true
	}

	if n.seekBar.Valid() {
		sb := n.seekBar
		corrected := false
		progress, errValue := parseInt(value)
		progressRaw, errRaw := parseInt(raw)
		if errValue != nil || errRaw != nil {
			sb.ResetToDefault()
			corrected = true
		} else {
			sb.SetProgress(progress)
			sb.SetProgressRaw(progressRaw)
		}
		n.SetValueRaw(strconv.Itoa(sb.ProgressRaw()))
		n.SetValue(strconv.Itoa(sb.Effective()))
		if sb.Effective() == sb.Min() && sb.MuteUsage() {
			sb.SetMuted(true)
		}
		return corrected
	}

	n.SetValue(value)
	n.SetValueRaw(raw)
	return false
}

// Save writes the switch, content and raw values.
func (m *Manager) Save(ctx context.Context, n *Node) error {
	return m.save(ctx, n, SaveAll)
}

// SaveSwitch writes only the switch value.
func (m *Manager) SaveSwitch(ctx context.Context, n *Node) error {
	return m.save(ctx, n, SaveSwitch)
}

// SaveContent writes only the display value.
func (m *Manager) SaveContent(ctx context.Context, n *Node) error {
	return m.save(ctx, n, SaveContent)
}

// SaveContentRaw writes only the raw value.
func (m *Manager) SaveContentRaw(ctx context.Context, n *Node) error {
	return m.save(ctx, n, SaveContentRaw)
}

func (m *Manager) save(ctx context.Context, n *Node, flag SaveFlag) error {
	n = m.optimizer(m, n, flag)
	if n == nil {
		return nil
	}

	ed := m.store.Edit()
	if flag&SaveSwitch != 0 && n.sw.Valid() {
		ed.PutBool(n.accessName+SuffixSwitch, n.sw.Checked())
	}
	if flag&SaveContent != 0 {
		ed.PutString(n.accessName+SuffixContent, n.Value())
	}
	if flag&SaveContentRaw != 0 {
		ed.PutString(n.accessName+SuffixContentRaw, n.ValueRaw())
	}
	if err := ed.Apply(ctx); err != nil {
		return fmt.Errorf("save %s: %w", n.accessName, err)
	}
	return nil
}

// SetSwitch checks or unchecks the node's switch, enables or disables its
// children to match, and saves the switch.
func (m *Manager) SetSwitch(ctx context.Context, n *Node, checked bool) error {
	if !n.sw.Valid() {
		return fmt.Errorf("%s: switch: %w", n.accessName, ErrWrongKind)
	}
	n.sw.SetChecked(checked)
	if n.HasChildren() {
		n.SetChildrenEnabled(checked)
	}
	return m.SaveSwitch(ctx, n)
}

// SetText stores free text on a Text node.
func (m *Manager) SetText(ctx context.Context, n *Node, text string) error {
	if !n.input.Valid() {
		return fmt.Errorf("%s: text: %w", n.accessName, ErrWrongKind)
	}
	n.SetValue(text)
	n.SetValueRaw(text)
	return m.saveContentPair(ctx, n)
}

// SetProgress moves a seek bar and saves the pair. The bar is muted only when
// it lands on its minimum and allows muting.
func (m *Manager) SetProgress(ctx context.Context, n *Node, progress int) error {
	sb := n.seekBar
	if !sb.Valid() {
		return fmt.Errorf("%s: seek bar: %w", n.accessName, ErrWrongKind)
	}
	sb.SetProgress(progress)
	sb.SetMuted(sb.MuteUsage() && sb.Progress() == sb.Min())
	n.SetValueRaw(strconv.Itoa(sb.ProgressRaw()))
	n.SetValue(strconv.Itoa(sb.Effective()))
	return m.saveContentPair(ctx, n)
}

// ToggleMute flips the mute state of a seek bar that allows muting. Unmuting
// at the minimum restores the default progress.
func (m *Manager) ToggleMute(ctx context.Context, n *Node) error {
	sb := n.seekBar
	if !sb.Valid() || !sb.MuteUsage() {
		return fmt.Errorf("%s: mute: %w", n.accessName, ErrWrongKind)
	}
	sb.ToggleMute()
	if !sb.Muted() && sb.Progress() == sb.Min() {
		sb.ResetToDefault()
		n.SetValueRaw(strconv.Itoa(sb.ProgressRaw()))
	}
	n.SetValue(strconv.Itoa(sb.Effective()))
	return m.saveContentPair(ctx, n)
}

// SelectRadio checks entry index through sel and stores its title and key.
// It returns false when index was already checked.
func (m *Manager) SelectRadio(ctx context.Context, n *Node, sel *Selection, index int) (bool, error) {
	if !n.radio.Valid() {
		return false, fmt.Errorf("%s: radio: %w", n.accessName, ErrWrongKind)
	}
	info, ok := n.radio.At(index)
	if !ok {
		return false, fmt.Errorf("%s: radio index %d out of range", n.accessName, index)
	}
	if !sel.Check(index) {
		return false, nil
	}
	n.SetValue(info.Title)
	n.SetValueRaw(info.Key)
	return true, m.saveContentPair(ctx, n)
}

// Launch opens an Intent node's target. A node without a launcher produces a
// notice instead of an error.
func (m *Manager) Launch(n *Node) bool {
	if !n.intent.Launchable() {
		m.notify(fmt.Sprintf("%s cannot be opened", displayName(n)))
		return false
	}
	if err := n.intent.launch(); err != nil {
		m.logger.Warn("launch failed", "access_name", n.accessName, "error", err)
		m.notify(fmt.Sprintf("%s could not be opened", displayName(n)))
		return false
	}
	return true
}

// Trigger fires an Event node.
func (m *Manager) Trigger(n *Node) bool {
	if !n.event.Fire() {
		m.notify(fmt.Sprintf("%s has no action", displayName(n)))
		return false
	}
	return true
}

func (m *Manager) saveContentPair(ctx context.Context, n *Node) error {
	if err := m.SaveContent(ctx, n); err != nil {
		return err
	}
	return m.SaveContentRaw(ctx, n)
}

func displayName(n *Node) string {
	if n.title != "" {
		return n.title
	}
	return n.accessName
}
