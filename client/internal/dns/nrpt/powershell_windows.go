package nrpt

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

func powershellPath() string {
	sysDir, err := windows.GetSystemDirectory()
	if err != nil || strings.TrimSpace(sysDir) == "" {
		return "powershell.exe"
	}
	return filepath.Join(sysDir, "WindowsPowerShell", "v1.0", "powershell.exe")
}
