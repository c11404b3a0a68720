package vault

import (
	"fmt"
	"path"
	"strings"
)

// validateName rejects names that could escape the vault root.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty object name")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("invalid object name: %q", name)
	}
	if path.Clean(name) != name {
		return fmt.Errorf("invalid object name: %q", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("invalid object name: %q", name)
		}
	}
	return nil
}
