package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CopyToClipboard pipes content into the platform clipboard tool.
func CopyToClipboard(content string) error {
	cmd, err := clipboardCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(content)
	return cmd.Run()
}

// clipboardCommand resolves the clipboard writer for the current platform.
// Linux has no single standard tool, so Wayland and X11 candidates are tried
// in order.
func clipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("pbcopy"), nil
	case "windows":
		return exec.Command("clip"), nil
	case "linux":
		candidates := [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c[0]); err == nil {
				return exec.Command(c[0], c[1:]...), nil
			}
		}
		return nil, fmt.Errorf("no clipboard tool found (wl-copy, xclip, or xsel)")
	default:
		return nil, fmt.Errorf("clipboard is not supported on %s", runtime.GOOS)
	}
}
