package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dshills/scribeline/internal/transcript"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const sampleYAML = `lines:
  - text: hello world
    start: 0
    end: 2
  - text: untimed words
  - text: third line here
    start: 4
    end: 6
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with a config file that does not exist,
// so only defaults and flags apply.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New()
	root.SetOut(&out)
	root.SetErr(&out)
	args = append(args, "--config", filepath.Join(t.TempDir(), "none.toml"))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{"none", nil, map[string]any{}},
		{
			name: "typed values",
			args: []string{"--threshold=3", "--fixup=50ms", "-l", "debug"},
			want: map[string]any{
				"selection": map[string]any{"threshold": 3.0},
				"regions":   map[string]any{"fixup_interval": "50ms"},
				"logging":   map[string]any{"level": "debug"},
			},
		},
		{
			name: "filters",
			args: []string{"--filter", "a.lua", "--filter", "b.lua"},
			want: map[string]any{
				"lua": map[string]any{"filters": []any{"a.lua", "b.lua"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cli{v: viper.New()}
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			c.register(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, c.overrides()); diff != "" {
				t.Errorf("overrides() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--threshold", "2.5", "--tick", "40ms")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"threshold = 2.5", "40ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "config", "--log-level", "loud"); err == nil {
		t.Error("config accepted an unknown log level")
	}
}

func TestPlayCommand(t *testing.T) {
	path := writeSample(t)

	out, err := execute(t, "play", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("play error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"hello world", "untimed words", "third line here"}
	if len(lines) != len(want) {
		t.Fatalf("printed %d lines, want %d:\n%s", len(lines), len(want), out)
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], w) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], w)
		}
	}
	if !strings.HasPrefix(lines[0], "[0:00.1]") {
		t.Errorf("first line = %q, want stamp of the first tick", lines[0])
	}

	out, err = execute(t, "play", path, "--from", "4.5", "--log-level", "error")
	if err != nil {
		t.Fatalf("play --from error = %v", err)
	}
	if got := strings.TrimSpace(out); got != "[0:04.5]   2 third line here" {
		t.Errorf("play --from output = %q", got)
	}
}

func TestPlayMissingFile(t *testing.T) {
	if _, err := execute(t, "play", filepath.Join(t.TempDir(), "gone.yaml"), "--log-level", "error"); err == nil {
		t.Error("play of a missing file succeeded")
	}
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	inspect(&out, transcript.Transcript{
		transcript.Timed("hello world", 0, 2),
		{Text: "untimed words"},
		transcript.Timed("third line here", 4, 6),
	}, 60)
	got := out.String()
	for _, want := range []string{"START", "0:04.0", "third line here", "3 lines, 2 timed, 7 words"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "overlap") {
		t.Errorf("unexpected overlap report:\n%s", got)
	}

	out.Reset()
	inspect(&out, transcript.Transcript{
		transcript.Timed("one", 0, 3),
		transcript.Timed("two", 2, 5),
	}, 60)
	got = out.String()
	if !strings.Contains(got, "two (overlaps)") || !strings.HasSuffix(strings.TrimSpace(got), "1 overlapping") {
		t.Errorf("overlap not reported:\n%s", got)
	}
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, "inspect", writeSample(t))
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	if !strings.Contains(out, "untimed words") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "scribeline dev (commit unknown, built unknown)\n"; out != want {
		t.Errorf("version = %q, want %q", out, want)
	}
}

func TestStamp(t *testing.T) {
	if got := stamp(125.5); got != "2:05.5" {
		t.Errorf("stamp(125.5) = %q", got)
	}
}
