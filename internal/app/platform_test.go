package app

import (
	"errors"
	"slices"
	"testing"
)

func fakeLookPath(available ...string) lookPathFunc {
	return func(name string) (string, error) {
		if slices.Contains(available, name) {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectClipboardInternal(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		available []string
		want      []string
	}{
		{name: "macOS", goos: "darwin", available: []string{"pbcopy", "xclip"}, want: []string{"/usr/bin/pbcopy"}},
		{name: "x11", goos: "linux", available: []string{"xclip"}, want: []string{"/usr/bin/xclip", "-selection", "clipboard"}},
		{name: "wayland first", goos: "linux", available: []string{"xsel", "wl-copy"}, want: []string{"/usr/bin/wl-copy"}},
		{name: "windows powershell", goos: "windows", available: []string{"pwsh"}, want: []string{"/usr/bin/pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}},
		{name: "none", goos: "linux", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectClipboardInternal(tt.goos, fakeLookPath(tt.available...))
			if ok != (tt.want != nil) || !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v (%v)", tt.want, got, ok)
			}
		})
	}
}

func TestDetectEditorCommandInternal(t *testing.T) {
	env := map[string]string{"VISUAL": "", "EDITOR": "code --wait"}
	getenv := func(key string) string { return env[key] }

	got, ok := detectEditorCommandInternal("linux", getenv, fakeLookPath("code", "vim"))
	if !ok || !slices.Equal(got, []string{"/usr/bin/code", "--wait"}) {
		t.Fatalf("expected $EDITOR to win, got %v", got)
	}

	env["EDITOR"] = "missing-editor"
	got, ok = detectEditorCommandInternal("linux", getenv, fakeLookPath("vim"))
	if !ok || !slices.Equal(got, []string{"/usr/bin/vim"}) {
		t.Fatalf("expected vim fallback, got %v", got)
	}

	if _, ok := detectEditorCommandInternal("linux", getenv, fakeLookPath()); ok {
		t.Fatalf("expected no editor")
	}
}

func TestParseEditorCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "  vim  ", want: []string{"vim"}},
		{in: "code --wait", want: []string{"code", "--wait"}},
		{in: `"/opt/My Editor/bin/ed" -n`, want: []string{"/opt/My Editor/bin/ed", "-n"}},
		{in: `emacs -e '(find-file "x")'`, want: []string{"emacs", "-e", `(find-file "x")`}},
		{in: `ed ''`, want: []string{"ed", ""}},
	}

	for _, tt := range tests {
		if got := parseEditorCommand(tt.in); !slices.Equal(got, tt.want) {
			t.Fatalf("parse %q: expected %#v, got %#v", tt.in, tt.want, got)
		}
	}
}

func TestEditorArgsWithFile(t *testing.T) {
	app := &Application{editorCmd: []string{"code", "--wait"}}

	got := app.editorArgsWithFile("/tmp/page.html")
	if !slices.Equal(got, []string{"code", "--wait", "/tmp/page.html"}) {
		t.Fatalf("unexpected args %v", got)
	}
	if len(app.editorCmd) != 2 {
		t.Fatalf("editor command must not be modified")
	}
}
