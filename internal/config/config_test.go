package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathFunctions(t *testing.T) {
	root := "/test/library"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"RefdeskPath", RefdeskPath, "/test/library/.refdesk"},
		{"ConfigPath", ConfigPath, "/test/library/.refdesk/config.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(root); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.name, root, got, tt.want)
			}
		})
	}
}

func TestIsLibrary(t *testing.T) {
	tmpDir := t.TempDir()

	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true for plain directory")
	}

	if err := os.Mkdir(RefdeskPath(tmpDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if !IsLibrary(tmpDir) {
		t.Error("IsLibrary() = false for library directory")
	}
}

func TestIsLibraryFileNotDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(RefdeskPath(tmpDir), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	if IsLibrary(tmpDir) {
		t.Error("IsLibrary() = true when .refdesk is a file")
	}
}

func TestFindLibraryWalksUp(t *testing.T) {
	t.Setenv(RootEnv, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // no global fallback
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	root := t.TempDir()
	if err := os.Mkdir(RefdeskPath(root), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindLibrary(nested)
	if err != nil {
		t.Fatalf("FindLibrary failed: %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(found); resolved != mustEval(t, root) {
		t.Errorf("FindLibrary = %q, want %q", found, root)
	}
}

func TestFindLibraryEnvOverride(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(RefdeskPath(root), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv(RootEnv, root)

	found, err := FindLibrary(t.TempDir())
	if err != nil {
		t.Fatalf("FindLibrary failed: %v", err)
	}
	if found != root {
		t.Errorf("FindLibrary = %q, want %q", found, root)
	}
}

func TestFindLibraryEnvOverrideNotALibrary(t *testing.T) {
	t.Setenv(RootEnv, t.TempDir())
	if _, err := FindLibrary("."); err == nil {
		t.Error("expected error for REFDESK_ROOT pointing at a non-library")
	}
}

func TestFindLibraryNotFound(t *testing.T) {
	t.Setenv(RootEnv, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	if _, err := FindLibrary(t.TempDir()); err == nil {
		t.Error("expected error outside any library")
	}
}

func TestLoadMissingConfigYieldsDefaults(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(RefdeskPath(root), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PDFReader != "" {
		t.Errorf("default PDFReader = %q, want empty", cfg.PDFReader)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(RefdeskPath(root), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{PDFReader: "zathura"}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.PDFReader != "zathura" {
		t.Errorf("PDFReader = %q, want zathura", got.PDFReader)
	}
}

func TestValidatePDFReader(t *testing.T) {
	if err := ValidatePDFReader(""); err != nil {
		t.Errorf("empty reader should be valid: %v", err)
	}
	if err := ValidatePDFReader("skim"); err != nil {
		t.Errorf("skim should be valid: %v", err)
	}
	if err := ValidatePDFReader("notepad"); err == nil {
		t.Error("notepad should be rejected")
	}
}

func mustEval(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}
