package atomiccmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styling for String's pretty-printed representation (spec.md §6). lipgloss
// degrades to plain text automatically via termenv when stdout is not a
// terminal, so callers can always print the result directly.
var (
	argvStyle  = lipgloss.NewStyle().Bold(true)
	nameStyles = map[Kind]lipgloss.Style{
		KindIn:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // blue
		KindOut:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // green
		KindExec:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		KindAux:   lipgloss.NewStyle().Foreground(lipgloss.Color("140")), // purple
		KindCheck: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // gray
	}
	stateStyle = lipgloss.NewStyle().Faint(true)
)

// String renders a stable, line-oriented, deterministic representation of
// the descriptor's argv and slot bindings, for logs and dependency dumps.
// The exact format is not part of the external contract beyond being
// deterministic for a given Descriptor (spec.md §6).
func (d *Descriptor) String() string {
	d.mu.Lock()
	argv := append([]string(nil), d.argv...)
	slots := d.slots
	state := d.state
	id := d.id
	d.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", argvStyle.Render(strings.Join(argv, " ")), stateStyle.Render(fmt.Sprintf("#%d [%s]", id, state)))

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, _, _, _ := parseSlotName(name)
		style, ok := nameStyles[kind]
		if !ok {
			style = lipgloss.NewStyle()
		}
		fmt.Fprintf(&b, "  %s = %s\n", style.Render(name), formatSlotValue(slots[name]))
	}

	return b.String()
}

func formatSlotValue(v SlotValue) string {
	switch x := v.(type) {
	case Path:
		return string(x)
	case pipeSentinel:
		return "PIPE"
	case Upstream:
		return fmt.Sprintf("<- descriptor #%d", x.Cmd.id)
	case CheckFunc:
		return "<check>"
	default:
		return fmt.Sprintf("%v", x)
	}
}
