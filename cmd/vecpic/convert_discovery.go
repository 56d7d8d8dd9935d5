package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputCollision    = errors.New("output path used by more than one input")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands the positional arguments into files to convert.
// Files must carry an allowed extension; directories are walked and files
// with other extensions are skipped.
func discoverFiles(inputs []string, output string) ([]FileToConvert, error) {
	var files []FileToConvert
	seen := make(map[string]string)

	add := func(in, out string) error {
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, prev, in, out)
		}
		seen[out] = in
		files = append(files, FileToConvert{InputPath: in, OutputPath: out})
		return nil
	}

	single := len(inputs) == 1
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := vecpic.ValidateFilename(filepath.Base(input)); err != nil {
				return nil, fmt.Errorf("%s: %w", input, err)
			}
			if err := add(input, resolveOutputPath(input, output, "", single)); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || vecpic.ValidateFilename(d.Name()) != nil {
				return nil
			}
			return add(path, resolveOutputPath(path, output, input, false))
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// resolveOutputPath determines the SVG path for an input image.
// Without an output it sits next to the input. An output ending in .svg is
// used verbatim for a single file argument. Otherwise output is a directory
// and, for walked inputs, the tree below baseInputDir is mirrored.
func resolveOutputPath(inputPath, output, baseInputDir string, single bool) string {
	name := fileutil.Stem(filepath.Base(inputPath)) + ".svg"

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if single && strings.HasSuffix(output, ".svg") {
		return output
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(output, filepath.Dir(rel), name)
		}
	}

	return filepath.Join(output, name)
}
