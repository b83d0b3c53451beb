package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

type lookPathFunc func(string) (string, error)

// clipboardCandidates lists copy commands in order of preference. Each entry
// is the executable followed by its arguments.
func clipboardCandidates(goos string) [][]string {
	var candidates [][]string
	if strings.EqualFold(goos, "windows") {
		candidates = append(candidates,
			[]string{"clip.exe"},
			[]string{"clip"},
			[]string{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
			[]string{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		)
	}
	return append(candidates,
		[]string{"pbcopy"},
		[]string{"wl-copy"},
		[]string{"xclip", "-selection", "clipboard"},
		[]string{"xsel", "--clipboard", "--input"},
	)
}

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath lookPathFunc) ([]string, bool) {
	for _, candidate := range clipboardCandidates(goos) {
		if resolved, ok := resolveExecutable(candidate[0], lookPath); ok {
			return append([]string{resolved}, candidate[1:]...), true
		}
	}
	return nil, false
}

func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

// detectEditorCommandInternal prefers $VISUAL, then $EDITOR, then a
// platform default.
func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath lookPathFunc) ([]string, bool) {
	var candidates [][]string
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if args := parseEditorCommand(getenv(env)); len(args) > 0 {
			candidates = append(candidates, args)
		}
	}
	if strings.EqualFold(goos, "windows") {
		candidates = append(candidates, []string{"code", "--wait"}, []string{"notepad.exe"})
	} else {
		candidates = append(candidates, []string{"vim"}, []string{"vi"}, []string{"nano"})
	}

	for _, args := range candidates {
		if resolved, ok := resolveExecutable(args[0], lookPath); ok {
			return append([]string{resolved}, args[1:]...), true
		}
	}
	return nil, false
}

// parseEditorCommand splits a shell-like command line, honoring single and
// double quotes.
func parseEditorCommand(cmd string) []string {
	var args []string
	var current strings.Builder
	var quote rune
	pending := false

	for _, r := range strings.TrimSpace(cmd) {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
			pending = true
		case quote == 0 && unicode.IsSpace(r):
			if pending || current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
		}
	}
	if pending || current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func expandUserPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func resolveExecutable(cmd string, lookPath lookPathFunc) (string, bool) {
	if cmd == "" {
		return "", false
	}
	path, err := lookPath(expandUserPath(cmd))
	if err != nil || path == "" {
		return "", false
	}
	return path, true
}
