package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// DetectBackend returns the first palette backend found in PATH.
func DetectBackend() (string, error) {
	for _, name := range backendNames {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(backendNames, ", "))
}
