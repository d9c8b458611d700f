//go:build windows

package fileopen

import "os/exec"

const launchSupported = true

// launchFile opens the file with its associated application.
func launchFile(path string) error {
	return exec.Command("cmd", "/C", "start", "", path).Start()
}
