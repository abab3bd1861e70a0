package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/winpick/internal/picker"
)

// windowItem implements list.Item for one rendered control.
type windowItem struct {
	control picker.Control
}

func (i windowItem) Title() string       { return i.control.Label }
func (i windowItem) Description() string { return i.control.Handle.String() }
func (i windowItem) FilterValue() string { return i.control.Label }

// listRegion renders controls into the bubbles list.
type listRegion struct {
	list list.Model
}

var _ picker.Region = (*listRegion)(nil)

func newListRegion() *listRegion {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Open windows"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &listRegion{list: l}
}

// Replace implements picker.Region.
func (r *listRegion) Replace(controls []picker.Control) {
	items := make([]list.Item, len(controls))
	for i, c := range controls {
		items[i] = windowItem{control: c}
	}
	r.list.ResetFilter()
	r.list.SetItems(items)
}

// selected returns the highlighted control.
func (r *listRegion) selected() (picker.Control, bool) {
	item, ok := r.list.SelectedItem().(windowItem)
	if !ok {
		return picker.Control{}, false
	}
	return item.control, true
}

// runMsg carries a completion onto the bubbletea loop.
type runMsg struct {
	fn func()
}

// programScheduler posts completions as messages to the running program.
type programScheduler struct {
	send func(tea.Msg)
}

var _ picker.Scheduler = (*programScheduler)(nil)

// Post always accepts: after the program exits Send is a no-op and nobody
// waits on the view's done channels.
func (s *programScheduler) Post(fn func()) bool {
	s.send(runMsg{fn: fn})
	return true
}
