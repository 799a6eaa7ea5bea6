package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardTool struct {
	name string
	args []string
}

// clipboardTools lists the commands tried in order for goos.
func clipboardTools(goos string) []clipboardTool {
	switch goos {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

// copyToClipboard pipes an export block into the first clipboard tool that
// accepts it and returns that tool's name. Tests swap it out.
var copyToClipboard = func(block string) (string, error) {
	block = strings.ReplaceAll(block, "\r\n", "\n")
	var errs []error
	for _, tool := range clipboardTools(runtime.GOOS) {
		if _, err := exec.LookPath(tool.name); err != nil {
			errs = append(errs, err)
			continue
		}
		cmd := exec.Command(tool.name, tool.args...)
		cmd.Stdin = strings.NewReader(block)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", tool.name, err))
			continue
		}
		return tool.name, nil
	}
	return "", fmt.Errorf("no clipboard tool available: %w", errors.Join(errs...))
}
