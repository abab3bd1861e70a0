package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/host"
)

type fakeHost struct {
	windows   []host.WindowInfo
	listErr   error
	activated []host.Handle
	result    bool
}

func (f *fakeHost) ListOpenWindows(ctx context.Context) ([]host.WindowInfo, error) {
	return f.windows, f.listErr
}

func (f *fakeHost) ActivateWindow(ctx context.Context, h host.Handle) (bool, error) {
	f.activated = append(f.activated, h)
	return f.result, nil
}

func newTestServer(h *fakeHost) *Server {
	return NewServer(h, zerolog.Nop())
}

func sampleWindows() []host.WindowInfo {
	return []host.WindowInfo{
		{Handle: 1, ApplicationName: "Notepad", Title: "untitled"},
		{Handle: 2, ApplicationName: "firefox", Title: "Go Documentation"},
		{Handle: 3, ApplicationName: "firefox", Title: "Inbox"},
	}
}

func u64(v uint64) *uint64 { return &v }

func TestListWindows(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   []host.Handle
	}{
		{"all", "", []host.Handle{1, 2, 3}},
		{"app filter", "FIREFOX", []host.Handle{2, 3}},
		{"title filter", "inbox", []host.Handle{3}},
		{"separator is part of label", "notepad - unt", []host.Handle{1}},
		{"no match", "terminal", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeHost{windows: sampleWindows()})
			_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{Filter: tt.filter})
			if err != nil {
				t.Fatalf("handleListWindows: %v", err)
			}
			if out.Count != len(tt.want) || len(out.Windows) != len(tt.want) {
				t.Fatalf("got %d windows, want %d", len(out.Windows), len(tt.want))
			}
			for i, h := range tt.want {
				if out.Windows[i].Handle != h {
					t.Fatalf("window %d handle = %v, want %v", i, out.Windows[i].Handle, h)
				}
			}
		})
	}
}

func TestListWindows_Label(t *testing.T) {
	s := newTestServer(&fakeHost{windows: sampleWindows()[:1]})
	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("handleListWindows: %v", err)
	}
	if out.Windows[0].Label != "Notepad - untitled" {
		t.Fatalf("label = %q", out.Windows[0].Label)
	}
}

func TestListWindows_HostError(t *testing.T) {
	s := newTestServer(&fakeHost{listErr: errors.New("no display")})
	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestActivateWindow_ByHandle(t *testing.T) {
	h := &fakeHost{result: true}
	s := newTestServer(h)

	_, out, err := s.handleActivateWindow(context.Background(), nil, ActivateWindowInput{Handle: u64(0x51)})
	if err != nil {
		t.Fatalf("handleActivateWindow: %v", err)
	}
	if !out.Activated || out.Handle != 0x51 {
		t.Fatalf("out = %+v", out)
	}
	if len(h.activated) != 1 || h.activated[0] != 0x51 {
		t.Fatalf("activated = %v", h.activated)
	}
}

func TestActivateWindow_RejectedIsNotAnError(t *testing.T) {
	s := newTestServer(&fakeHost{result: false})

	_, out, err := s.handleActivateWindow(context.Background(), nil, ActivateWindowInput{Handle: u64(42)})
	if err != nil {
		t.Fatalf("handleActivateWindow: %v", err)
	}
	if out.Activated {
		t.Fatal("expected activated=false")
	}
}

func TestActivateWindow_ByMatch(t *testing.T) {
	h := &fakeHost{windows: sampleWindows(), result: true}
	s := newTestServer(h)

	_, out, err := s.handleActivateWindow(context.Background(), nil, ActivateWindowInput{Match: "inbox"})
	if err != nil {
		t.Fatalf("handleActivateWindow: %v", err)
	}
	if out.Handle != 3 || out.Label != "firefox - Inbox" {
		t.Fatalf("out = %+v", out)
	}
}

func TestActivateWindow_MatchErrors(t *testing.T) {
	tests := []struct {
		name  string
		input ActivateWindowInput
		want  string
	}{
		{"neither", ActivateWindowInput{}, "either hwnd or match"},
		{"none", ActivateWindowInput{Match: "terminal"}, "no window matches"},
		{"ambiguous", ActivateWindowInput{Match: "firefox"}, "2 windows match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &fakeHost{windows: sampleWindows(), result: true}
			s := newTestServer(h)
			_, _, err := s.handleActivateWindow(context.Background(), nil, tt.input)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			if len(h.activated) != 0 {
				t.Fatalf("activated = %v", h.activated)
			}
		})
	}
}
