package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmpack-labs/dmpack/internal/deliverable"
	"github.com/spf13/viper"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Flag variables outlive a single Execute call.
	buildFile, buildOutput, buildYes = "deliverable.yaml", "", false
	inspectJSON = false
	versionShort, versionJSON = false, false
	initOutputDir, initModelType, initAuthor = ".", "", ""
	logLevel = "info"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "model"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "model", "model.onnx"), []byte("onnx"), 0644); err != nil {
		t.Fatal(err)
	}

	def := `name: tiny
version: "0.1.0"
dependencies: [click]
model:
  type: onnx
  source: ./model
  dependencies: [onnxruntime, click]
`
	path := filepath.Join(dir, "deliverable.yaml")
	if err := os.WriteFile(path, []byte(def), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAndInspect(t *testing.T) {
	defPath := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "dist")

	out, err := execute(t, "", "build", "-f", defPath, "-o", outDir)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "dependencies: click, onnxruntime") {
		t.Errorf("build output = %q", out)
	}

	out, err = execute(t, "", "inspect", outDir)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{"Name:         tiny", "Version:      0.1.0", "Dependencies: click, onnxruntime"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "inspect", "--json", outDir)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	if !strings.Contains(out, `"dependency": [`) {
		t.Errorf("inspect --json output = %s", out)
	}
}

func TestInspectDetectsModifiedModelFile(t *testing.T) {
	defPath := writeProject(t)
	outDir := filepath.Join(t.TempDir(), "dist")

	if out, err := execute(t, "", "build", "-f", defPath, "-o", outDir); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	copied := filepath.Join(deliverable.AssetDir(outDir, deliverable.RoleModel), "data", "model.onnx")
	if err := os.WriteFile(copied, []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "inspect", outDir)
	if err == nil {
		t.Fatalf("expected inspect to fail for a modified model file:\n%s", out)
	}
	if !strings.Contains(out, "/model/files/model.onnx") {
		t.Errorf("inspect output missing checksum issue:\n%s", out)
	}
}

func TestBuildRejectsOutputContainingProject(t *testing.T) {
	defPath := writeProject(t)
	projectDir := filepath.Dir(defPath)

	if _, err := execute(t, "", "build", "-f", defPath, "-o", projectDir, "--yes"); err == nil {
		t.Fatal("expected build to refuse an output directory holding the definition")
	}
	if _, err := os.Stat(filepath.Join(projectDir, "model", "model.onnx")); err != nil {
		t.Errorf("model source should survive: %v", err)
	}
}

func TestConfigSetAndGet(t *testing.T) {
	out, err := execute(t, "", "config", "set", "log_level", "debug")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(out, "Set log_level = debug") {
		t.Errorf("output = %q", out)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"unknown set key", []string{"config", "set", "colour", "auto"}},
		{"bad log level", []string{"config", "set", "log_level", "loud"}},
		{"unknown get key", []string{"config", "get", "colour"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestBuildCancelledOnNonEmptyOutput(t *testing.T) {
	defPath := writeProject(t)
	outDir := t.TempDir()
	keep := filepath.Join(outDir, "keep.txt")
	if err := os.WriteFile(keep, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "n\n", "build", "-f", defPath, "-o", outDir)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(out, "Build cancelled.") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("output directory should be untouched after cancelling")
	}
}

func TestBuildConfirmedWipesOutput(t *testing.T) {
	defPath := writeProject(t)
	outDir := t.TempDir()
	stale := filepath.Join(outDir, "stale.txt")
	if err := os.WriteFile(stale, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "yes\n", "build", "-f", defPath, "-o", outDir); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(deliverable.ManifestPath(outDir)); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
}

func TestValidateCommand(t *testing.T) {
	defPath := writeProject(t)
	out, err := execute(t, "", "validate", defPath)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("output = %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("version: \"1.0.0\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "", "validate", bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(out, "issue(s)") {
		t.Errorf("output = %q", out)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "", "init", "ner-model", "--output-dir", dir, "--model-type", "onnx")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if strings.Contains(out, "warning:") {
		t.Errorf("unexpected warnings: %s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "deliverable.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "type: onnx") {
		t.Errorf("definition = %s", data)
	}

	if _, err := execute(t, "", "init", "Bad Name", "--output-dir", t.TempDir()); err == nil {
		t.Error("expected error for invalid name")
	}
}

func TestVersionReportsPackageFormat(t *testing.T) {
	out, err := execute(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"package_format": "`+deliverable.FormatVersion+`"`) {
		t.Errorf("version --json output = %s", out)
	}
}

func TestUnknownLogLevel(t *testing.T) {
	if _, err := execute(t, "", "--log-level", "loud", "version", "--short"); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "? "); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsNonEmptyDir(t *testing.T) {
	dir := t.TempDir()

	if got, err := isNonEmptyDir(filepath.Join(dir, "missing")); err != nil || got {
		t.Errorf("missing dir = (%v, %v), want (false, nil)", got, err)
	}
	if got, err := isNonEmptyDir(dir); err != nil || got {
		t.Errorf("empty dir = (%v, %v), want (false, nil)", got, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got, err := isNonEmptyDir(dir); err != nil || !got {
		t.Errorf("populated dir = (%v, %v), want (true, nil)", got, err)
	}
}
