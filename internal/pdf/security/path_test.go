package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("Expected error for empty directory")
	}

	validator, err := NewPathValidator("/non/existent/path")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if validator.GetConfiguredDirectory() != "/non/existent/path" {
		t.Errorf("GetConfiguredDirectory() = %s", validator.GetConfiguredDirectory())
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	tempDir := t.TempDir()
	outsideDir := t.TempDir()

	subDir := filepath.Join(tempDir, "subdir")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	validFile := filepath.Join(tempDir, "valid.pdf")
	subFile := filepath.Join(subDir, "sub.pdf")
	outsideFile := filepath.Join(outsideDir, "outside.pdf")
	for _, f := range []string{validFile, subFile, outsideFile} {
		if err := os.WriteFile(f, []byte("test"), 0o644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	escapeLink := filepath.Join(tempDir, "escape.pdf")
	symlinks := true
	if err := os.Symlink(outsideFile, escapeLink); err != nil {
		t.Logf("Warning: Failed to create symlink (may not be supported): %v", err)
		symlinks = false
	}

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantError bool
	}{
		{name: "empty path", path: "", wantError: true},
		{name: "null byte", path: validFile + "\x00.pdf", wantError: true},
		{name: "valid file in root", path: validFile, wantError: false},
		{name: "valid file in subdirectory", path: subFile, wantError: false},
		{name: "not yet created file", path: filepath.Join(tempDir, "later.pdf"), wantError: false},
		{name: "file outside directory", path: outsideFile, wantError: true},
		{name: "parent directory traversal", path: filepath.Join(tempDir, "..", "outside.pdf"), wantError: true},
		{name: "sibling with shared prefix", path: tempDir + "-other/x.pdf", wantError: true},
		{name: "dot segment within directory", path: filepath.Join(tempDir, ".", "valid.pdf"), wantError: false},
	}
	if symlinks {
		tests = append(tests, struct {
			name      string
			path      string
			wantError bool
		}{name: "symlink escaping directory", path: escapeLink, wantError: true})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePath(tt.path)
			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPathValidator_MissingConfiguredDirectory(t *testing.T) {
	validator, err := NewPathValidator(filepath.Join(t.TempDir(), "not-created"))
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	within, err := validator.IsPathWithinDirectory("/anywhere/at/all.pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !within {
		t.Error("Expected any path to be allowed before the directory exists")
	}
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "file.pdf")
	if err := os.WriteFile(file, []byte("test"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}

	if err := validator.ValidateDirectory(tempDir); err != nil {
		t.Errorf("Unexpected error for configured directory: %v", err)
	}
	if err := validator.ValidateDirectory(filepath.Join(tempDir, "later")); err != nil {
		t.Errorf("Unexpected error for missing subdirectory: %v", err)
	}
	if err := validator.ValidateDirectory(file); err == nil {
		t.Error("Expected error for a file path")
	}
	if err := validator.ValidateDirectory(t.TempDir()); err == nil {
		t.Error("Expected error for a directory outside the configured one")
	}
}
