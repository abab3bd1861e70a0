package mcp

import "github.com/1broseidon/winpick/internal/host"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"Optional case-insensitive substring matched against the '<application> - <title>' label"`
}

// WindowEntry is one window in the list_windows output.
type WindowEntry struct {
	Handle          host.Handle `json:"hwnd"`
	ApplicationName string      `json:"application_name"`
	Title           string      `json:"title"`
	Label           string      `json:"label"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowEntry `json:"windows"`
	Count   int           `json:"count"`
}

// ActivateWindowInput is the input for the activate_window tool.
type ActivateWindowInput struct {
	Handle *uint64 `json:"hwnd,omitempty" jsonschema:"Window handle as returned by list_windows"`
	Match  string  `json:"match,omitempty" jsonschema:"Case-insensitive label substring; used when hwnd is omitted and must match exactly one window"`
}

// ActivateWindowOutput is the output for the activate_window tool.
type ActivateWindowOutput struct {
	Handle    host.Handle `json:"hwnd"`
	Label     string      `json:"label,omitempty"`
	Activated bool        `json:"activated"`
}
