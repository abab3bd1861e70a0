package palette

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/picker"
)

func TestRofiFormatItem_UsesSingleNullSeparator(t *testing.T) {
	b := newRofi()

	out := b.formatItem(Item{
		Label:  "firefox - Inbox",
		Handle: 0x51,
		Icon:   "firefox",
		Meta:   "firefox",
	}, "firefox - Inbox")

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.HasPrefix(out, "firefox - Inbox\x00icon\x1ffirefox") {
		t.Fatalf("unexpected row %q", out)
	}
	if !strings.Contains(out, "meta\x1ffirefox") || !strings.Contains(out, "info\x1f0x51") {
		t.Fatalf("expected meta/info attributes, got %q", out)
	}
}

func TestRofiFormatItem_EscapesMarkup(t *testing.T) {
	b := newRofi()

	out := b.formatItem(Item{Label: "Code - <main>.go & co"}, "Code - <main>.go & co")
	if !strings.HasPrefix(out, "Code - &lt;main&gt;.go &amp; co\x00") {
		t.Fatalf("expected escaped markup, got %q", out)
	}
}

func TestDmenuFormatItem_PlainText(t *testing.T) {
	b := newDmenu()

	out := b.formatItem(Item{Label: "a & b", Icon: "x"}, "a & b")
	if out != "a & b" {
		t.Fatalf("dmenu row = %q", out)
	}
}

func TestRofiBuildArgs(t *testing.T) {
	b := newRofi()
	b.fuzzyMatching = true

	args := b.buildArgs("window", "msg", []Item{{Label: "a"}, {Label: "b", IsActive: true}})

	for _, pair := range [][2]string{
		{"-format", "i"},
		{"-p", "window"},
		{"-matching", "fuzzy"},
		{"-a", "1"},
		{"-selected-row", "1"},
		{"-mesg", "msg"},
	} {
		if !containsArgs(args, pair[0], pair[1]) {
			t.Fatalf("expected %s %s in args, got %v", pair[0], pair[1], args)
		}
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
}

func TestRofiBuildArgs_NoActiveRow(t *testing.T) {
	b := newRofi()

	args := b.buildArgs("", "", []Item{{Label: "a"}})
	if containsArg(args, "-a") || containsArg(args, "-p") || containsArg(args, "-matching") {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestParseSelection(t *testing.T) {
	labels := []string{"a - one", "b - two"}

	tests := []struct {
		name      string
		backend   *dmenuLikeBackend
		selection string
		want      int
		wantErr   bool
	}{
		{"rofi index", newRofi(), "1", 1, false},
		{"rofi out of range", newRofi(), "5", 0, true},
		{"fuzzel index", newFuzzel(), "0", 0, false},
		{"dmenu label", newDmenu(), "b - two", 1, false},
		{"wofi unknown", newWofi(), "c - three", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.backend.parseSelection(tt.selection, labels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDisplayLabels_DisambiguatesForTextBackends(t *testing.T) {
	items := []Item{{Label: "xterm - bash"}, {Label: "xterm - bash"}, {Label: "xterm - bash"}}

	got := newDmenu().displayLabels(items)
	want := []string{"xterm - bash", "xterm - bash (2)", "xterm - bash (3)"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %q, want %q", got, want)
		}
	}

	got = newRofi().displayLabels(items)
	for _, l := range got {
		if l != "xterm - bash" {
			t.Fatalf("index backend labels changed: %q", got)
		}
	}
}

func TestDisplayLabels_SuffixSkipsExistingLabels(t *testing.T) {
	items := []Item{
		{Label: "Mail - Inbox (2)", Handle: 10},
		{Label: "Mail - Inbox", Handle: 20},
		{Label: "Mail - Inbox", Handle: 30},
	}

	for _, b := range []*dmenuLikeBackend{newDmenu(), newWofi()} {
		labels := b.displayLabels(items)
		want := []string{"Mail - Inbox (2)", "Mail - Inbox", "Mail - Inbox (3)"}
		for i := range want {
			if labels[i] != want[i] {
				t.Fatalf("%s labels = %q, want %q", b.command, labels, want)
			}
		}

		for i, item := range items {
			got, err := b.parseSelection(labels[i], labels)
			if err != nil {
				t.Fatalf("%s parseSelection(%q): %v", b.command, labels[i], err)
			}
			if items[got].Handle != item.Handle {
				t.Fatalf("%s row %d resolved to handle %v, want %v", b.command, i, items[got].Handle, item.Handle)
			}
		}
	}
}

func TestDisplayLabels_RealLabelAfterDuplicates(t *testing.T) {
	items := []Item{{Label: "A"}, {Label: "A"}, {Label: "A (2)"}}

	got := newDmenu().displayLabels(items)
	want := []string{"A", "A (3)", "A (2)"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %q, want %q", got, want)
		}
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("kitty", Options{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestItemsFromControls(t *testing.T) {
	items := ItemsFromControls([]picker.Control{
		{Label: "Firefox - Inbox - Mail", Handle: 2, ApplicationName: "Firefox"},
		{Label: "Notepad - untitled", Handle: 1, ApplicationName: "Notepad"},
		{Label: "Foo - Bar - doc.txt", Handle: 3, ApplicationName: "Foo - Bar"},
	}, 1, true)

	if items[0].Icon != "firefox" || items[0].Meta != "Firefox" || items[0].IsActive {
		t.Fatalf("item 0 = %+v", items[0])
	}
	if items[2].Meta != "Foo - Bar" || items[2].Icon != "foo - bar" {
		t.Fatalf("app name with separator was re-parsed: %+v", items[2])
	}
	if items[1].Handle != 1 || !items[1].IsActive {
		t.Fatalf("item 1 = %+v", items[1])
	}
}

type fakeHost struct {
	mu        sync.Mutex
	windows   []host.WindowInfo
	listErr   error
	activated []host.Handle
}

func (f *fakeHost) ListOpenWindows(ctx context.Context) ([]host.WindowInfo, error) {
	return f.windows, f.listErr
}

func (f *fakeHost) ActivateWindow(ctx context.Context, h host.Handle) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated = append(f.activated, h)
	return true, nil
}

type fakeBackend struct {
	pick   int
	err    error
	shown  []Item
	prompt string
}

func (f *fakeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	f.prompt = prompt
	f.shown = items
	if f.err != nil {
		return SelectResult{}, f.err
	}
	return SelectResult{Index: f.pick, Item: items[f.pick]}, nil
}

func (f *fakeBackend) Capabilities() Capabilities { return Capabilities{} }

func TestPicker_ActivatesChosenWindow(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{
		{Handle: 1, ApplicationName: "Notepad", Title: "untitled"},
		{Handle: 7, ApplicationName: "Code", Title: "main.go"},
	}}
	backend := &fakeBackend{pick: 1}
	p := NewPicker(backend, h, zerolog.Nop())

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if backend.prompt != Prompt || len(backend.shown) != 2 || backend.shown[1].Label != "Code - main.go" {
		t.Fatalf("shown = %+v", backend.shown)
	}
	if len(h.activated) != 1 || h.activated[0] != 7 {
		t.Fatalf("activated = %v", h.activated)
	}
}

func TestPicker_Cancelled(t *testing.T) {
	h := &fakeHost{windows: []host.WindowInfo{{Handle: 1, ApplicationName: "a", Title: "b"}}}
	p := NewPicker(&fakeBackend{err: ErrCancelled}, h, zerolog.Nop())

	if err := p.Run(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if len(h.activated) != 0 {
		t.Fatalf("activated = %v", h.activated)
	}
}

func TestPicker_NoWindows(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPicker(backend, &fakeHost{}, zerolog.Nop())

	if err := p.Run(context.Background()); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("expected ErrNoWindows, got %v", err)
	}
	if backend.shown != nil {
		t.Fatal("backend shown with no windows")
	}
}

func TestPicker_FetchFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	p := NewPicker(&fakeBackend{}, &fakeHost{listErr: errors.New("no display")}, zerolog.New(&logs))

	if err := p.Run(context.Background()); !errors.Is(err, ErrNoWindows) {
		t.Fatalf("expected ErrNoWindows, got %v", err)
	}
	if !strings.Contains(logs.String(), picker.KindFetchFailure) {
		t.Fatalf("expected fetch failure log, got %q", logs.String())
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
