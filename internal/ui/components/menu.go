package components

import tea "charm.land/bubbletea/v2"

// MenuItem is one entry of a Menu. A disabled item is drawn but skipped
// by the cursor.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is the cursor state of a vertical menu; screens draw it
// themselves.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(-1, 1)
	return m
}

// SetItems swaps the items. The cursor stays put when it still lands on an
// enabled item and otherwise moves to the first one.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if !m.enabled(m.Selected) {
		m.Selected = m.next(-1, 1)
	}
}

func (m Menu) enabled(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Disabled
}

// next returns the first enabled index after from in direction dir, or
// from itself when there is none. With no enabled items at all it is 0.
func (m Menu) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if m.enabled(i) {
			return i
		}
	}
	if from < 0 {
		return 0
	}
	return from
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.Selected = m.next(m.Selected, -1)
	case "down", "j":
		m.Selected = m.next(m.Selected, 1)
	case "enter":
		if m.enabled(m.Selected) && m.Items[m.Selected].Action != nil {
			return m, m.Items[m.Selected].Action()
		}
	}
	return m, nil
}
