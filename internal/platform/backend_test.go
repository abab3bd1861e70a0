package platform

import "testing"

func TestSortWindows_AppThenTitleThenID(t *testing.T) {
	windows := []Window{
		{ID: 9, AppName: "firefox", Title: "b"},
		{ID: 3, AppName: "Alacritty", Title: "shell"},
		{ID: 2, AppName: "firefox", Title: "a"},
		{ID: 1, AppName: "firefox", Title: "a"},
	}

	SortWindows(windows)

	want := []WindowID{3, 1, 2, 9}
	for i, w := range windows {
		if w.ID != want[i] {
			t.Fatalf("position %d: got ID %d, want %d (%+v)", i, w.ID, want[i], windows)
		}
	}
}

func TestFilterExcluded(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
		want    []WindowID
	}{
		{"no exclusions", nil, []WindowID{1, 2, 3}},
		{"case-insensitive", []string{"FIREFOX"}, []WindowID{2, 3}},
		{"blank entries ignored", []string{"", "  "}, []WindowID{1, 2, 3}},
		{"multiple", []string{"firefox", "xterm"}, []WindowID{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows := []Window{
				{ID: 1, AppName: "Firefox"},
				{ID: 2, AppName: "Alacritty"},
				{ID: 3, AppName: "XTerm"},
			}
			got := FilterExcluded(windows, tt.classes)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d windows, want %d (%+v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Fatalf("position %d: got %d, want %d", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}
