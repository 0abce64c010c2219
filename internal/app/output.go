package app

import (
	"fmt"
	"strings"

	"github.com/five82/prefcenter/internal/logstore"
	"github.com/five82/prefcenter/internal/preference"
)

const entryTimeLayout = "2006-01-02 15:04:05.000"

func (a *App) cmdTree() error {
	tree := a.manager.Tree()
	fmt.Fprintf(a.out, "%s (%d preferences)\n", tree.Name(), tree.Len())
	tree.Walk(func(n *preference.Node, depth int) bool {
		fmt.Fprintf(a.out, "%s%s\n", strings.Repeat("  ", depth+1), nodeLine(n))
		return true
	})
	for _, p := range tree.Problems() {
		fmt.Fprintf(a.out, "warning: %v\n", p)
	}
	return nil
}

func nodeLine(n *preference.Node) string {
	var b strings.Builder
	title := n.Title()
	if title == "" {
		title = n.AccessName()
	}
	fmt.Fprintf(&b, "%s [%s] %s", title, n.AccessName(), n.Kind())
	if sw := n.Switch(); sw.Valid() {
		if sw.Checked() {
			b.WriteString(" on")
		} else {
			b.WriteString(" off")
		}
	}
	if v := valueText(n); v != "" {
		fmt.Fprintf(&b, " = %s", v)
	}
	if !n.Enabled() {
		b.WriteString(" (disabled)")
	}
	return b.String()
}

func valueText(n *preference.Node) string {
	switch n.Kind() {
	case preference.KindSeekBar:
		sb := n.SeekBar()
		if sb.Muted() {
			return "muted"
		}
		return fmt.Sprintf("%s/%d", n.Value(), sb.Max())
	case preference.KindIntent, preference.KindEvent:
		return ""
	default:
		return n.Value()
	}
}

func (a *App) printNode(n *preference.Node) {
	fmt.Fprintln(a.out, nodeLine(n))
	if d := n.Description(); d != "" {
		fmt.Fprintf(a.out, "  %s\n", d)
	}
	fmt.Fprintf(a.out, "  id: %d\n", n.ID())
	fmt.Fprintf(a.out, "  value: %q\n", n.Value())
	fmt.Fprintf(a.out, "  raw: %q\n", n.ValueRaw())
	if r := n.Radio(); r.Valid() {
		for _, e := range r.Entries() {
			mark := " "
			if e.Key == n.ValueRaw() {
				mark = "*"
			}
			fmt.Fprintf(a.out, "  %s %s (%s)\n", mark, e.Title, e.Key)
		}
	}
}

func (a *App) printEntry(e logstore.Entry) {
	fmt.Fprintf(a.out, "--- %s %s\n", e.Time().Format(entryTimeLayout), e.Name)
	fmt.Fprintln(a.out, e.Body)
}

func parseOnOff(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: want on or off, got %q", ErrUsage, v)
}
