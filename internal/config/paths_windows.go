//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	local := os.Getenv("LOCALAPPDATA")
	programData := os.Getenv("ProgramData")
	return []string{
		"diagreport.yaml",
		filepath.Join(local, "Vitalis", "diagreport.yaml"),
		filepath.Join(programData, "Vitalis", "diagreport.yaml"),
	}
}
