// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
	ErrNotDirectory           = errors.New("path is not a directory")
)

// windowsDeviceNames are reserved on Windows regardless of extension.
var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM0": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT0": true, "LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SecureFilename returns an ASCII-only version of name that is safe to join
// to a directory. Path separators become underscores, characters outside
// [A-Za-z0-9_.-] are dropped, and leading/trailing dots and underscores are
// trimmed. The result may be empty.
//
// Examples:
//   - "My cool movie.mov" -> "My_cool_movie.mov"
//   - "../../../etc/passwd" -> "etc_passwd"
//   - "i contain cool ümläuts.txt" -> "i_contain_cool_umlauts.txt"
//   - "CON.png" -> "_CON.png"
func SecureFilename(name string) string {
	// NFKD splits accented letters into base letter + combining mark;
	// dropping non-ASCII then keeps the base letter.
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	ascii.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r > unicode.MaxASCII:
			continue
		case r == '/' || r == '\\':
			ascii.WriteByte(' ')
		default:
			ascii.WriteRune(r)
		}
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var safe strings.Builder
	safe.Grow(len(joined))
	for i := 0; i < len(joined); i++ {
		if isSafeFilenameByte(joined[i]) {
			safe.WriteByte(joined[i])
		}
	}

	out := strings.Trim(safe.String(), "._")
	if out == "" {
		return ""
	}

	if base, _, _ := strings.Cut(out, "."); windowsDeviceNames[strings.ToUpper(base)] {
		out = "_" + out
	}
	return out
}

func isSafeFilenameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-':
		return true
	}
	return false
}

// Extension returns the substring after the last dot of name, or name
// itself when it contains no dot. Case is preserved.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Stem returns name without its final extension ("a.b.png" -> "a.b").
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ValidateExtension checks that the extension is safe for use in file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// WriteNewFile writes data to path, failing if the file already exists.
// The partially written file is removed on error.
func WriteNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- path built by caller
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// EnsureWritableDir creates dir (and parents) if missing, then verifies a
// file can be created inside it.
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "production" -> false (name)
//   - "./vecpic.yaml" -> true (relative path)
//   - "/etc/vecpic/vecpic.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
