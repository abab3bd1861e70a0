// Package palette shows the window list in an external dmenu-style launcher
// (rofi, fuzzel, wofi or dmenu) and activates the chosen window.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/1broseidon/winpick/internal/host"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable row.
type Item struct {
	Label    string      // Display text
	Handle   host.Handle // Window the row activates
	Icon     string      // Icon name for rofi -show-icons
	Meta     string      // Hidden search keywords
	IsActive bool        // Currently focused window
}

// SelectResult is the chosen row.
type SelectResult struct {
	Index int
	Item  Item
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons       bool // Supports icon display
	Markup      bool // Supports pango markup in labels
	IndexOutput bool // Can output selection index (not just text)
	MessageBar  bool // Supports message bar
	RowStates   bool // Supports active row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	// Show displays items under prompt. message is shown where the backend
	// has a message bar.
	Show(prompt string, items []Item, message string) (SelectResult, error)

	Capabilities() Capabilities
}

// Options tune a backend.
type Options struct {
	FuzzyMatching bool
}

// backendNames lists launchers in auto-detection priority order.
var backendNames = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string, opts Options) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var b *dmenuLikeBackend
	switch name {
	case "rofi":
		b = newRofi()
	case "fuzzel":
		b = newFuzzel()
	case "wofi":
		b = newWofi()
	case "dmenu":
		b = newDmenu()
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}

	if _, err := exec.LookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", b.command)
	}
	b.fuzzyMatching = opts.FuzzyMatching
	return b, nil
}
