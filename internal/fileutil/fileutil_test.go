package fileutil_test

// Notes:
// - WriteNewFile: the Write and Close error branches are not tested because
//   triggering disk write failures is platform-specific.
// - EnsureWritableDir: the "not writable" branch is skipped when running as
//   root, since root ignores directory permissions.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alnah/go-vecpic/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestSecureFilename - Filename sanitization
// ---------------------------------------------------------------------------

func TestSecureFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "photo.png", "photo.png"},
		{"spaces become underscores", "My cool movie.mov", "My_cool_movie.mov"},
		{"runs of whitespace collapse", "a  \t b.jpg", "a_b.jpg"},
		{"parent traversal", "../../../etc/passwd", "etc_passwd"},
		{"windows traversal", `..\..\boot.ini`, "boot.ini"},
		{"umlauts folded", "i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"non-latin dropped", "日本.png", "png"},
		{"unsafe punctuation dropped", "a;b|c$d.png", "abcd.png"},
		{"leading dots trimmed", "...hidden.png", "hidden.png"},
		{"trailing underscores trimmed", "name_.png__", "name_.png"},
		{"keeps dashes", "red-square_10x10.png", "red-square_10x10.png"},
		{"empty input", "", ""},
		{"only unsafe", "///", ""},
		{"windows device name", "CON.png", "_CON.png"},
		{"windows device lowercase", "com1.jpg", "_com1.jpg"},
		{"device prefix only", "CONSOLE.png", "CONSOLE.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.SecureFilename(tt.input); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExtension / TestStem - Name splitting
// ---------------------------------------------------------------------------

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"test.png", "png"},
		{"archive.tar.gz", "gz"},
		{"UPPER.PNG", "PNG"},
		{"noext", "noext"},
		{"trailing.", ""},
		{".png", "png"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Extension(tt.input); got != tt.want {
				t.Errorf("Extension(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"test.png", "test"},
		{"a.b.jpeg", "a.b"},
		{"noext", "noext"},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.Stem(tt.input); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid png", "png", nil},
		{"valid jpeg", "jpeg", nil},
		{"empty", "", fileutil.ErrExtensionEmpty},
		{"forward slash", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash", `..\windows`, fileutil.ErrExtensionPathTraversal},
		{"null byte", "png\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteNewFile - Exclusive file creation
// ---------------------------------------------------------------------------

func TestWriteNewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input_test.png")
	data := []byte{0x89, 'P', 'N', 'G'}

	if err := fileutil.WriteNewFile(path, data); err != nil {
		t.Fatalf("WriteNewFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", got, data)
	}
}

func TestWriteNewFile_ExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "taken.png")
	if err := os.WriteFile(path, []byte("first"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := fileutil.WriteNewFile(path, []byte("second"))
	if !errors.Is(err, os.ErrExist) {
		t.Fatalf("WriteNewFile() error = %v, want os.ErrExist", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "first" {
		t.Errorf("existing file was modified: %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestEnsureWritableDir - Work directory checks
// ---------------------------------------------------------------------------

func TestEnsureWritableDir(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "work")
		if err := fileutil.EnsureWritableDir(dir); err != nil {
			t.Fatalf("EnsureWritableDir() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory not created: %v", err)
		}
	})

	t.Run("leaves no probe behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := fileutil.EnsureWritableDir(dir); err != nil {
			t.Fatalf("EnsureWritableDir() error = %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected empty dir, found %d entries", len(entries))
		}
	})

	t.Run("regular file is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
		if err := fileutil.EnsureWritableDir(path); err == nil {
			t.Error("expected error for regular file")
		}
	})

	t.Run("read-only directory", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits not enforced")
		}
		dir := filepath.Join(t.TempDir(), "ro")
		if err := os.Mkdir(dir, 0o500); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

		if err := fileutil.EnsureWritableDir(dir); err == nil {
			t.Error("expected error for read-only directory")
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.yaml")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if fileutil.FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"production", false},
		{"./vecpic.yaml", true},
		{"/etc/vecpic.yaml", true},
		{`C:\vecpic.yaml`, true},
		{"my-config", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
