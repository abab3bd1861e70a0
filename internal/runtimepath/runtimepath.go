// Package runtimepath locates per-user runtime files: the daemon socket and
// the picker's fallback log.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SocketEnv names the variable that overrides the daemon socket path. The
// daemon sets it for the palettes it launches.
const SocketEnv = "WINPICK_SOCKET"

const (
	socketName = "winpick.sock"
	logName    = "winpick.log"
)

// Dir returns the per-user runtime directory: $XDG_RUNTIME_DIR, else
// /run/user/<uid> when it exists, else a private directory under the system
// temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := strconv.Itoa(os.Getuid())
	if info, err := os.Stat(filepath.Join("/run/user", uid)); err == nil && info.IsDir() {
		return filepath.Join("/run/user", uid), nil
	}

	dir := filepath.Join(os.TempDir(), "winpick-"+uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path, $WINPICK_SOCKET when set.
func SocketPath() (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	return file(socketName)
}

// LogPath returns where full-screen front-ends log when no log file is configured.
func LogPath() (string, error) {
	return file(logName)
}

func file(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
