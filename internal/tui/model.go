package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/picker"
)

// model is the root bubbletea model. It is used by pointer so completions
// running inside Update can reach the region and status.
type model struct {
	view   *picker.View
	region *listRegion

	closeOnActivate bool
	quit            bool
	status          string
	statusErr       bool

	width  int
	height int
}

func newModel(h host.Capability, sched picker.Scheduler, opts Options) *model {
	m := &model{
		region:          newListRegion(),
		closeOnActivate: opts.CloseOnActivate,
	}
	m.view = picker.NewView(h, m.region, sched,
		picker.WithLogger(opts.Logger),
		picker.WithActivationFunc(m.activated),
	)
	return m
}

func (m *model) activated(handle host.Handle, ok bool, err error) {
	switch {
	case err != nil:
		m.setStatus(fmt.Sprintf("error activating %s: %v", handle, err), true)
	case !ok:
		m.setStatus(fmt.Sprintf("could not activate %s", handle), true)
	default:
		m.setStatus("", false)
		if m.closeOnActivate {
			m.quit = true
		}
	}
}

func (m *model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *model) load() tea.Cmd {
	return func() tea.Msg {
		m.view.LoadWindowList()
		return nil
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg.fn()
		if m.quit {
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.region.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if c, ok := m.controlAt(msg.Y); ok {
				m.view.Activate(c)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.region.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if c, ok := m.region.selected(); ok {
				m.view.Activate(c)
			}
			return m, nil
		case "r":
			return m, m.load()
		}
	}

	var cmd tea.Cmd
	m.region.list, cmd = m.region.list.Update(msg)
	return m, cmd
}

// controlAt maps a screen row to the control drawn there.
func (m *model) controlAt(y int) (picker.Control, bool) {
	row := y - headerLines
	if row < 0 || row >= m.region.list.Paginator.PerPage {
		return picker.Control{}, false
	}
	items := m.region.list.VisibleItems()
	idx := m.region.list.Paginator.Page*m.region.list.Paginator.PerPage + row
	if idx >= len(items) {
		return picker.Control{}, false
	}
	m.region.list.Select(idx)
	item, ok := items[idx].(windowItem)
	if !ok {
		return picker.Control{}, false
	}
	return item.control, true
}

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := m.status
	if status == "" {
		status = fmt.Sprintf("%d windows", len(m.region.list.Items()))
	}
	statusLine := statusStyle.Width(m.width).Render(" " + status)
	if m.statusErr {
		statusLine = errorStyle.Width(m.width).Render(" " + status)
	}
	help := helpStyle.Render(" enter/click: activate  /: filter  r: refresh  q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.region.list.View(),
		statusLine,
		help,
	)
}
