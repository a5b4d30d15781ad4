//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		"diagreport.yaml",
		filepath.Join(home, ".vitalis", "diagreport.yaml"),
		"/etc/vitalis/diagreport.yaml",
	}
}
