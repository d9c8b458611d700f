// Package fileopen launches local files by exact path or by a heuristic
// search over the user's Downloads and Desktop folders. Launching is only
// available on Windows; everywhere else a fixed notice is returned.
package fileopen

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"iris-assistant/internal/common/logger"
)

const disabledMessage = "⚠️ **Local File Access Disabled:** I am currently running in a hosted environment. I do not have access to the local files, folders, or applications on your computer."

// Directories never descended into during the heuristic search.
var skipDirs = []string{".git", "venv", "__pycache__", ".gemini"}

type Opener struct {
	homeDir string
	launch  func(path string) error
	logger  logger.Logger
}

func NewOpener(log logger.Logger) *Opener {
	home, _ := os.UserHomeDir()
	return &Opener{
		homeDir: home,
		launch:  launchFile,
		logger: log.With(map[string]interface{}{
			"adapter": "fileopen",
		}),
	}
}

// Open resolves the query to a file and launches it. The return value is
// always displayable text; a failed launch degrades to "could not find".
func (o *Opener) Open(query string) string {
	if !launchSupported {
		return disabledMessage
	}
	return o.resolveAndLaunch(query)
}

func (o *Opener) resolveAndLaunch(query string) string {
	path := strings.TrimSpace(query)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if err := o.launch(path); err == nil {
			return fmt.Sprintf("📂 Opened file: **%s**", path)
		}
	}

	target := strings.ToLower(path)
	searchDirs := []string{
		filepath.Join(o.homeDir, "Downloads"),
		filepath.Join(o.homeDir, "Desktop"),
	}

	for _, dir := range searchDirs {
		if name, ok := o.searchAndLaunch(dir, target); ok {
			return fmt.Sprintf("📂 Opened: **%s**", name)
		}
	}

	return fmt.Sprintf("Could not find a file matching **%s**.", path)
}

// searchAndLaunch walks dir for a file whose name equals or contains target
// (case-insensitive) and launches the first one that opens.
func (o *Opener) searchAndLaunch(dir, target string) (string, bool) {
	var opened string
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			for _, skip := range skipDirs {
				if strings.Contains(d.Name(), skip) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		name := strings.ToLower(d.Name())
		if name != target && !strings.Contains(name, target) {
			return nil
		}
		if err := o.launch(path); err != nil {
			o.logger.Warn("file launch failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		opened = d.Name()
		return filepath.SkipAll
	})
	return opened, opened != ""
}
