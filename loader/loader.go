// Package loader finds and parses OpenAPI contract documents on disk.
// Patterns support single-level (*) and recursive (**) wildcards, so a
// pattern like "./contracts/**/*.yaml" picks up a whole tree of specs.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/apigrade/document"
)

// specExtensions are the file extensions treated as contract documents.
var specExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Spec is one loaded contract document.
type Spec struct {
	Path string
	Doc  *document.Node
}

// ResolvePaths expands glob patterns to concrete spec files, deduplicated
// and filtered to known extensions. A literal path must exist and carry a
// spec extension.
func ResolvePaths(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

// Load resolves the patterns and parses every matched file. A file that
// fails to parse aborts the load with its path in the error.
func Load(patterns []string) ([]Spec, error) {
	paths, err := ResolvePaths(patterns)
	if err != nil {
		return nil, err
	}

	specs := make([]Spec, 0, len(paths))
	for _, path := range paths {
		spec, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// LoadFile reads and parses a single contract document. YAML parsing also
// covers JSON input, so both formats go through one path.
func LoadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read spec %s: %w", path, err)
	}

	doc, err := document.FromYAML(data)
	if err != nil {
		return Spec{}, fmt.Errorf("parse spec %s: %w", path, err)
	}

	return Spec{Path: path, Doc: doc}, nil
}

func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			// A bare directory means every spec file directly inside it.
			return resolvePattern(filepath.Join(absPath, "*"))
		}
		if !isSpecFile(absPath) {
			return nil, fmt.Errorf("not a spec file: %s", absPath)
		}
		return []string{absPath}, nil
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if !info.IsDir() && isSpecFile(match) {
			files = append(files, match)
		}
	}
	return files, nil
}

func isSpecFile(path string) bool {
	return specExtensions[strings.ToLower(filepath.Ext(path))]
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// makeAbsolutePattern anchors the literal prefix of a pattern to an
// absolute directory while leaving the glob portion untouched.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := -1
	for i, c := range pattern {
		if c == '*' || c == '?' || c == '[' {
			globIdx = i
			break
		}
	}
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	dirPart := pattern[:globIdx]
	if lastSep := strings.LastIndex(dirPart, string(filepath.Separator)); lastSep >= 0 {
		dirPart = pattern[:lastSep]
	} else if lastSep := strings.LastIndex(dirPart, "/"); lastSep >= 0 {
		dirPart = pattern[:lastSep]
	} else {
		dirPart = "."
	}

	globPart := pattern[len(dirPart):]

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}

	return absDir + filepath.FromSlash(globPart), nil
}
