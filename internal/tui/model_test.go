package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
)

type fakeHost struct {
	mu        sync.Mutex
	windows   []host.WindowInfo
	listErr   error
	result    bool
	activated []host.Handle
}

func (f *fakeHost) ListOpenWindows(ctx context.Context) ([]host.WindowInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windows, f.listErr
}

func (f *fakeHost) ActivateWindow(ctx context.Context, h host.Handle) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, h)
	return f.result, nil
}

// harness feeds scheduler messages back into the model the way the program
// loop would.
type harness struct {
	t    *testing.T
	m    *model
	msgs chan tea.Msg
}

func newHarness(t *testing.T, h host.Capability, opts Options) *harness {
	msgs := make(chan tea.Msg, 16)
	sched := &programScheduler{send: func(msg tea.Msg) { msgs <- msg }}
	opts.Logger = zerolog.Nop()
	hs := &harness{t: t, m: newModel(h, sched, opts), msgs: msgs}
	hs.m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return hs
}

func (hs *harness) runCmd(cmd tea.Cmd) {
	if cmd != nil {
		cmd()
	}
}

// next applies the next posted completion and returns Update's command.
func (hs *harness) next() tea.Cmd {
	hs.t.Helper()
	select {
	case msg := <-hs.msgs:
		_, cmd := hs.m.Update(msg)
		return cmd
	case <-time.After(2 * time.Second):
		hs.t.Fatal("no completion posted")
		return nil
	}
}

func (hs *harness) labels() []string {
	var labels []string
	for _, item := range hs.m.region.list.Items() {
		labels = append(labels, item.(windowItem).control.Label)
	}
	return labels
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_InitLoadsWindows(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{
		{Handle: 1, ApplicationName: "Notepad", Title: "untitled"},
		{Handle: 2, ApplicationName: "Code", Title: "main.go"},
	}}
	hs := newHarness(t, h, Options{})

	hs.runCmd(hs.m.Init())
	hs.next()

	got := hs.labels()
	if len(got) != 2 || got[0] != "Notepad - untitled" || got[1] != "Code - main.go" {
		t.Fatalf("labels = %q", got)
	}
}

func TestModel_RefreshReplacesList(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 1, ApplicationName: "A", Title: "a"}}}
	hs := newHarness(t, h, Options{})
	hs.runCmd(hs.m.Init())
	hs.next()

	h.mu.Lock()
	h.windows = []host.WindowInfo{{Handle: 2, ApplicationName: "B", Title: "b"}}
	h.mu.Unlock()

	_, cmd := hs.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	hs.runCmd(cmd)
	hs.next()

	got := hs.labels()
	if len(got) != 1 || got[0] != "B - b" {
		t.Fatalf("labels = %q", got)
	}
}

func TestModel_FetchFailureKeepsList(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 1, ApplicationName: "A", Title: "a"}}}
	hs := newHarness(t, h, Options{})
	hs.runCmd(hs.m.Init())
	hs.next()

	h.mu.Lock()
	h.listErr = errors.New("gone")
	h.mu.Unlock()

	_, cmd := hs.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	hs.runCmd(cmd)
	hs.next()

	if got := hs.labels(); len(got) != 1 || got[0] != "A - a" {
		t.Fatalf("labels = %q", got)
	}
}

func TestModel_EnterActivatesSelected(t *testing.T) {
	h := &fakeHost{
		windows: []host.WindowInfo{
			{Handle: 1, ApplicationName: "A", Title: "a"},
			{Handle: 7, ApplicationName: "B", Title: "b"},
		},
		result: true,
	}
	hs := newHarness(t, h, Options{})
	hs.runCmd(hs.m.Init())
	hs.next()

	hs.m.region.list.Select(1)
	hs.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd := hs.next(); isQuit(cmd) {
		t.Fatal("quit without close_on_activate")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.activated) != 1 || h.activated[0] != 7 {
		t.Fatalf("activated = %v", h.activated)
	}
	if hs.m.status != "" {
		t.Fatalf("status = %q after success", hs.m.status)
	}
}

func TestModel_CloseOnActivate(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 3, ApplicationName: "A", Title: "a"}}, result: true}
	hs := newHarness(t, h, Options{CloseOnActivate: true})
	hs.runCmd(hs.m.Init())
	hs.next()

	hs.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd := hs.next(); !isQuit(cmd) {
		t.Fatal("expected quit after successful activation")
	}
}

func TestModel_RejectedActivationShowsStatus(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 42, ApplicationName: "A", Title: "a"}}, result: false}
	hs := newHarness(t, h, Options{CloseOnActivate: true})
	hs.runCmd(hs.m.Init())
	hs.next()

	hs.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd := hs.next(); isQuit(cmd) {
		t.Fatal("quit after rejected activation")
	}
	if !hs.m.statusErr || hs.m.status == "" {
		t.Fatalf("status = %q err=%v", hs.m.status, hs.m.statusErr)
	}
	if got := hs.labels(); len(got) != 1 {
		t.Fatalf("list changed: %q", got)
	}
}

func TestModel_ClickActivatesRow(t *testing.T) {
	h := &fakeHost{
		windows: []host.WindowInfo{
			{Handle: 1, ApplicationName: "A", Title: "a"},
			{Handle: 2, ApplicationName: "B", Title: "b"},
		},
		result: true,
	}
	hs := newHarness(t, h, Options{})
	hs.runCmd(hs.m.Init())
	hs.next()

	hs.m.Update(tea.MouseMsg{
		X:      4,
		Y:      headerLines + 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	hs.next()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.activated) != 1 || h.activated[0] != 2 {
		t.Fatalf("activated = %v", h.activated)
	}
}

func TestModel_ClickOutsideRowsIgnored(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 1, ApplicationName: "A", Title: "a"}}}
	hs := newHarness(t, h, Options{})
	hs.runCmd(hs.m.Init())
	hs.next()

	if _, ok := hs.m.controlAt(0); ok {
		t.Fatal("title row mapped to a control")
	}
	if _, ok := hs.m.controlAt(headerLines + 5); ok {
		t.Fatal("row past the last item mapped to a control")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		hs := newHarness(t, &fakeHost{}, Options{})
		if _, cmd := hs.m.Update(key); !isQuit(cmd) {
			t.Fatalf("%q did not quit", key.String())
		}
	}
}
