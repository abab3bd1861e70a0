package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type backendKind int

const (
	kindRofi backendKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

// dmenuLikeBackend drives any launcher that reads rows on stdin and prints
// the choice on stdout.
type dmenuLikeBackend struct {
	command string
	kind    backendKind
	caps    Capabilities

	fuzzyMatching bool
}

func newRofi() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "rofi",
		kind:    kindRofi,
		caps: Capabilities{
			Icons:       true,
			Markup:      true,
			IndexOutput: true,
			MessageBar:  true,
			RowStates:   true,
		},
	}
}

func newFuzzel() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "fuzzel",
		kind:    kindFuzzel,
		caps:    Capabilities{Icons: true, IndexOutput: true},
	}
}

func newWofi() *dmenuLikeBackend {
	return &dmenuLikeBackend{
		command: "wofi",
		kind:    kindWofi,
		caps:    Capabilities{Markup: true},
	}
}

func newDmenu() *dmenuLikeBackend {
	return &dmenuLikeBackend{command: "dmenu", kind: kindDmenu}
}

func (b *dmenuLikeBackend) Capabilities() Capabilities {
	return b.caps
}

func (b *dmenuLikeBackend) Show(prompt string, items []Item, message string) (SelectResult, error) {
	if len(items) == 0 {
		return SelectResult{}, fmt.Errorf("palette: no items to show")
	}

	labels := b.displayLabels(items)
	cmd := exec.Command(b.command, b.buildArgs(prompt, message, items)...)
	cmd.Stdin = strings.NewReader(b.formatInput(items, labels))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return SelectResult{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return SelectResult{}, fmt.Errorf("%s failed: %s", b.command, msg)
		}
		return SelectResult{}, fmt.Errorf("%s failed: %w", b.command, err)
	}
	if selection == "" {
		return SelectResult{}, ErrCancelled
	}

	idx, err := b.parseSelection(selection, labels)
	if err != nil {
		return SelectResult{}, err
	}
	return SelectResult{Index: idx, Item: items[idx]}, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt, message string, items []Item) []string {
	var args []string

	switch b.kind {
	case kindRofi:
		// -format i prints the row index; labels may contain anything.
		args = []string{"-dmenu", "-i", "-format", "i", "-no-custom"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		if b.fuzzyMatching {
			args = append(args, "-matching", "fuzzy")
		}
		args = append(args, "-markup-rows", "-show-icons")
		if active := activeRows(items); len(active) > 0 {
			args = append(args, "-a", formatIndices(active), "-selected-row", strconv.Itoa(active[0]))
		}
		if message != "" {
			args = append(args, "-mesg", message)
		}

	case kindFuzzel:
		args = []string{"--dmenu", "--index"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindWofi:
		args = []string{"--dmenu", "--allow-markup"}
		if prompt != "" {
			args = append(args, "--prompt", prompt)
		}

	case kindDmenu:
		args = []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
	}

	return args
}

// displayLabels returns the text shown per row. Backends that answer with the
// row text get duplicate titles suffixed so every row stays distinguishable.
// A suffix never reuses a label another row already carries.
func (b *dmenuLikeBackend) displayLabels(items []Item) []string {
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = sanitizeLabel(item.Label)
	}
	if b.caps.IndexOutput {
		return labels
	}

	reserved := make(map[string]bool, len(labels))
	for _, label := range labels {
		reserved[label] = true
	}
	used := make(map[string]bool, len(labels))
	for i, label := range labels {
		if used[label] {
			candidate := label
			for n := 2; used[candidate] || reserved[candidate]; n++ {
				candidate = fmt.Sprintf("%s (%d)", label, n)
			}
			labels[i] = candidate
		}
		used[labels[i]] = true
	}
	return labels
}

func (b *dmenuLikeBackend) formatInput(items []Item, labels []string) string {
	lines := make([]string, len(items))
	for i := range items {
		lines[i] = b.formatItem(items[i], labels[i])
	}
	return strings.Join(lines, "\n")
}

func (b *dmenuLikeBackend) formatItem(item Item, label string) string {
	display := label
	if b.caps.Markup {
		display = html.EscapeString(display)
	}
	if b.kind != kindRofi {
		return display
	}

	// Rofi row properties: one NUL, then key\x1fvalue pairs joined by \x1f.
	var attrs []string
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	attrs = append(attrs, "info", item.Handle.String())
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, labels []string) (int, error) {
	if b.caps.IndexOutput {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(labels) {
				return 0, fmt.Errorf("palette: index %d out of range", idx)
			}
			return idx, nil
		}
	}
	for i, label := range labels {
		if label == selection {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown selection %q", selection)
}

func activeRows(items []Item) []int {
	var rows []int
	for i, item := range items {
		if item.IsActive {
			rows = append(rows, i)
		}
	}
	return rows
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '\x00', '\x1f', '\r', '\n':
			return ' '
		}
		return r
	}, value))
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1: no selection (Escape). 130: Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
