package model

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func writeModelTree(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "saved_model")
	files := map[string]string{
		"saved_model.pb":                          "graph",
		"variables/variables.index":               "index",
		"variables/variables.data-00000-of-00001": "weights",
		".git/HEAD":                               "ref",
		".DS_Store":                               "",
		"__pycache__/x.pyc":                       "bytecode",
	}
	for rel, content := range files {
		p := filepath.Join(src, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return src
}

func TestNewBuilderValidation(t *testing.T) {
	if _, err := NewBuilder("", "1.0", "/tmp"); err == nil {
		t.Error("expected error for empty type")
	}
	if _, err := NewBuilder("onnx", "1.0", ""); err == nil {
		t.Error("expected error for empty source")
	}
	b, err := NewBuilder("onnx", "", "/tmp")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if b.version != "1.0" {
		t.Errorf("default version = %q, want 1.0", b.version)
	}
}

func TestSerializeCopiesAndChecksums(t *testing.T) {
	src := writeModelTree(t)
	b, err := NewBuilder("keras_saved_model", "1.0", src)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	desc, err := b.Serialize(dir)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	d, ok := desc.(Descriptor)
	if !ok {
		t.Fatalf("descriptor type = %T", desc)
	}
	if d.Type != "keras_saved_model" || d.Data != DataDir {
		t.Errorf("descriptor = %+v", d)
	}

	var got []string
	for rel := range d.Files {
		got = append(got, rel)
	}
	sort.Strings(got)
	want := []string{
		"saved_model.pb",
		"variables/variables.data-00000-of-00001",
		"variables/variables.index",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}

	for _, excluded := range []string{".git", ".DS_Store", "__pycache__"} {
		if _, err := os.Stat(filepath.Join(dir, DataDir, excluded)); err == nil {
			t.Errorf("%s should not be copied", excluded)
		}
	}

	for _, sum := range d.Files {
		if len(sum) != 64 {
			t.Errorf("checksum %q is not a hex SHA-256", sum)
		}
	}

	mismatched, err := Verify(dir, d)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(mismatched) != 0 {
		t.Errorf("Verify mismatches = %v, want none", mismatched)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	src := writeModelTree(t)
	b, err := NewBuilder("keras_saved_model", "1.0", src)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	desc, err := b.Serialize(dir)
	if err != nil {
		t.Fatal(err)
	}
	d := desc.(Descriptor)

	if err := os.WriteFile(filepath.Join(dir, DataDir, "saved_model.pb"), []byte("tampered"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, DataDir, "variables", "variables.index")); err != nil {
		t.Fatal(err)
	}

	mismatched, err := Verify(dir, d)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	sort.Strings(mismatched)
	want := []string{"saved_model.pb", "variables/variables.index"}
	if !reflect.DeepEqual(mismatched, want) {
		t.Errorf("mismatched = %v, want %v", mismatched, want)
	}
}

func TestSerializeMissingSource(t *testing.T) {
	b, err := NewBuilder("onnx", "1.0", filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Serialize(t.TempDir()); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestSerializeSourceIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := NewBuilder("onnx", "1.0", f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Serialize(t.TempDir()); err == nil {
		t.Fatal("expected error when source is a file")
	}
}

func TestShouldExclude(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{".git", true},
		{".DS_Store", true},
		{"__pycache__", true},
		{"saved_model.pb", false},
		{"variables", false},
	}

	for _, tt := range tests {
		if got := shouldExclude(tt.name); got != tt.expected {
			t.Errorf("shouldExclude(%q) = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestSerializeIntoOwnSource(t *testing.T) {
	src := writeModelTree(t)
	b, err := NewBuilder("keras_saved_model", "1.0", src)
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(src, "dist", "asset", "model")
	desc, err := b.Serialize(dir)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	d := desc.(Descriptor)
	if len(d.Files) != 3 {
		t.Errorf("files = %v, want the 3 source files only", d.Files)
	}
	nested := filepath.Join(dir, DataDir, "dist", "asset", "model", DataDir)
	if _, err := os.Stat(nested); !os.IsNotExist(err) {
		t.Errorf("destination was copied into itself at %s", nested)
	}
}

func TestSerializeSkipsSymlinks(t *testing.T) {
	src := writeModelTree(t)
	if err := os.Symlink(filepath.Join(src, "saved_model.pb"), filepath.Join(src, "link.pb")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	b, err := NewBuilder("keras_saved_model", "1.0", src)
	if err != nil {
		t.Fatal(err)
	}

	desc, err := b.Serialize(t.TempDir())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if _, ok := desc.(Descriptor).Files["link.pb"]; ok {
		t.Error("symlink should not be copied")
	}
	if got := b.Skipped(); !reflect.DeepEqual(got, []string{"link.pb"}) {
		t.Errorf("Skipped() = %v, want [link.pb]", got)
	}
}
