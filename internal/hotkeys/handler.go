// Package hotkeys binds global X11 key sequences to callbacks.
package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"

	"github.com/1broseidon/winpick/internal/platform"
)

// x11Accessor is implemented by backends that expose their X connection.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts on the root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  zerolog.Logger

	mu    sync.Mutex
	bound []string
}

var ignoreModsOnce sync.Once

// NewHandler creates a handler for backend. Backends without an X connection
// are rejected.
func NewHandler(backend platform.Backend, logger zerolog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("global hotkeys need the X11 backend: %w", platform.ErrUnsupported)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		xevent.IgnoreMods = ignoreMasks(
			uint16(xproto.ModMaskLock),
			modMaskForKeysym(xu, "Num_Lock"),
			modMaskForKeysym(xu, "Scroll_Lock"),
		)
	})

	return &Handler{
		xu:   xu,
		root: accessor.RootWindow(),
		log:  logger.With().Str("component", "hotkeys").Logger(),
	}, nil
}

// Register binds keySequence (xgbutil syntax, e.g. "Mod4-w") to callback.
func (h *Handler) Register(keySequence string, callback func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.log.Debug().Str("keys", keySequence).Msg("hotkey triggered")
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to bind %q: %w", keySequence, err)
	}

	h.mu.Lock()
	h.bound = append(h.bound, keySequence)
	h.mu.Unlock()
	h.log.Info().Str("keys", keySequence).Msg("hotkey registered")
	return nil
}

// UnregisterAll releases every grab made by this handler.
func (h *Handler) UnregisterAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.bound) == 0 {
		return
	}
	keybind.Detach(h.xu, h.root)
	h.bound = nil
}

// Bound returns the registered key sequences.
func (h *Handler) Bound() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bound...)
}

// ignoreMasks returns every combination of the lock modifiers, so a hotkey
// still fires with CapsLock or NumLock on.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	masks := make([]uint16, 0, len(unique))
	for mask := range unique {
		masks = append(masks, mask)
	}
	sort.Slice(masks, func(i, j int) bool { return masks[i] < masks[j] })
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
