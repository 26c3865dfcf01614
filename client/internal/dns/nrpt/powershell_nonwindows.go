//go:build !windows

package nrpt

func powershellPath() string {
	return "powershell"
}
