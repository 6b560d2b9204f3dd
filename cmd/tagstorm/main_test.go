package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/tagstorm/internal/config"
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		in      string
		want    override
		wantErr bool
	}{
		{"tagsInput.maxTags=3", override{config.DirectiveTagsInput, "maxTags", "3"}, false},
		{"tags.placeholder=New tag", override{config.DirectiveTagsInput, "placeholder", "New tag"}, false},
		{"autocomplete.minLength=1", override{config.DirectiveAutoComplete, "minLength", "1"}, false},
		{"auto.debounceDelay=", override{config.DirectiveAutoComplete, "debounceDelay", ""}, false},
		{"tagsInput.pasteSplitPattern=a=b", override{config.DirectiveTagsInput, "pasteSplitPattern", "a=b"}, false},
		{"maxTags=3", override{}, true},
		{"tagsInput.maxTags", override{}, true},
		{"tagsInput.=3", override{}, true},
		{"editor.maxTags=3", override{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOverride(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOverride(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseOverride(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOverride_UnknownDirective(t *testing.T) {
	_, err := parseOverride("editor.maxTags=3")
	if !errors.Is(err, config.ErrUnknownDirective) {
		t.Errorf("parseOverride() error = %v, want ErrUnknownDirective", err)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReplay(t *testing.T) {
	out, _, err := execute(t, "", "replay", "red , blue Enter")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "red\nblue\n" {
		t.Errorf("output = %q, want %q", out, "red\nblue\n")
	}
}

func TestReplay_JSON(t *testing.T) {
	out, _, err := execute(t, "", "replay", "--json", "--tags", "one", "two Enter")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != `["one","two"]`+"\n" {
		t.Errorf("output = %q", out)
	}
}

func TestReplay_Stdin(t *testing.T) {
	out, _, err := execute(t, "red Enter\n\nblue\n", "replay")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// blue is left in the input and added on blur.
	if diff := cmp.Diff("red\nblue\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_NoBlur(t *testing.T) {
	out, stderr, err := execute(t, "", "replay", "--no-blur", "red Enter blue")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "red\n" {
		t.Errorf("output = %q, want %q", out, "red\n")
	}
	// Leftover text is allowed while the input has focus.
	if strings.Contains(stderr, "warning") {
		t.Errorf("stderr = %q, want no warning", stderr)
	}
}

func TestReplay_Overrides(t *testing.T) {
	out, stderr, err := execute(t, "",
		"replay",
		"--set", "tagsInput.maxTags=1",
		"--set", "tagsInput.addOnSpace=true",
		"one Space two Enter",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "one\ntwo\n" {
		t.Errorf("output = %q, want %q", out, "one\ntwo\n")
	}
	if !strings.Contains(stderr, "too many tags") {
		t.Errorf("stderr = %q, want too many tags warning", stderr)
	}
}

func TestReplay_Words(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# languages\npython\npypy\nruby\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "",
		"replay",
		"--words", path,
		"--set", "autoComplete.debounceDelay=1",
		"pyt",
		"Enter",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "python\n" {
		t.Errorf("output = %q, want %q", out, "python\n")
	}
}

func TestReplay_Script(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.lua")
	script := `
function on_adding(tag)
  return tag.text ~= "nope"
end
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "", "replay", "--lua", path, "--no-blur",
		"nope Enter Backspace Backspace Backspace Backspace",
		"yes Enter",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "yes\n" {
		t.Errorf("output = %q, want %q", out, "yes\n")
	}
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad override", []string{"replay", "--set", "nope", "a"}},
		{"missing config", []string{"replay", "--config", "/does/not/exist.toml", "a"}},
		{"exclusive sources", []string{"replay", "--words", "w.txt", "--remote", "http://localhost", "a"}},
		{"missing words", []string{"replay", "--words", "/does/not/exist.txt", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, "", tt.args...); err == nil {
				t.Error("Execute() error = nil, want error")
			}
		})
	}
}
