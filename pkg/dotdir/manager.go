// Package dotdir manages the .wiretap/ and ~/.wiretap directories where the
// CLI keeps its config.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the name of the wiretap settings directory.
const dirName = ".wiretap"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .wiretap/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.wiretap/ dir
//  3. Home ~/.wiretap/ dir
//  4. If none found, attempt to create ~/.wiretap/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating wiretap directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether a .wiretap/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
