package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winpick/internal/host"
	"github.com/1broseidon/winpick/internal/picker"
)

func (s *Server) handleListWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.host.ListOpenWindows(ctx)
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}

	entries := filterWindows(windows, args.Filter)
	s.log.Debug().Int("count", len(entries)).Str("filter", args.Filter).Msg("list_windows")
	return nil, ListWindowsOutput{Windows: entries, Count: len(entries)}, nil
}

func (s *Server) handleActivateWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args ActivateWindowInput) (*mcpsdk.CallToolResult, ActivateWindowOutput, error) {
	var target WindowEntry
	switch {
	case args.Handle != nil:
		target.Handle = host.Handle(*args.Handle)
	case strings.TrimSpace(args.Match) != "":
		windows, err := s.host.ListOpenWindows(ctx)
		if err != nil {
			return nil, ActivateWindowOutput{}, fmt.Errorf("failed to list windows: %w", err)
		}
		matches := filterWindows(windows, args.Match)
		switch len(matches) {
		case 0:
			return nil, ActivateWindowOutput{}, fmt.Errorf("no window matches %q", args.Match)
		case 1:
			target = matches[0]
		default:
			labels := make([]string, 0, len(matches))
			for _, m := range matches {
				labels = append(labels, fmt.Sprintf("%s (%s)", m.Label, m.Handle))
			}
			return nil, ActivateWindowOutput{}, fmt.Errorf("%d windows match %q: %s", len(matches), args.Match, strings.Join(labels, "; "))
		}
	default:
		return nil, ActivateWindowOutput{}, fmt.Errorf("either hwnd or match is required")
	}

	ok, err := s.host.ActivateWindow(ctx, target.Handle)
	if err != nil {
		return nil, ActivateWindowOutput{}, fmt.Errorf("failed to activate window %s: %w", target.Handle, err)
	}
	s.log.Debug().Stringer("handle", target.Handle).Bool("activated", ok).Msg("activate_window")

	return nil, ActivateWindowOutput{
		Handle:    target.Handle,
		Label:     target.Label,
		Activated: ok,
	}, nil
}

func filterWindows(windows []host.WindowInfo, filter string) []WindowEntry {
	needle := strings.ToLower(strings.TrimSpace(filter))
	entries := make([]WindowEntry, 0, len(windows))
	for _, w := range windows {
		label := picker.Label(w)
		if needle != "" && !strings.Contains(strings.ToLower(label), needle) {
			continue
		}
		entries = append(entries, WindowEntry{
			Handle:          w.Handle,
			ApplicationName: w.ApplicationName,
			Title:           w.Title,
			Label:           label,
		})
	}
	return entries
}
