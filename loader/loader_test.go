package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const minimalSpec = `
openapi: "3.1.0"
info:
  title: Widget API
  version: 1.0.0
paths: {}
`

func TestResolvePathsLiteralFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "widget.yaml", minimalSpec)

	resolved, err := ResolvePaths([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, resolved)
}

func TestResolvePathsRejectsNonSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "notes.txt", "hello")

	_, err := ResolvePaths([]string{path})
	assert.Error(t, err)
}

func TestResolvePathsDirectoryListsSpecs(t *testing.T) {
	dir := t.TempDir()
	a := writeSpec(t, dir, "a.yaml", minimalSpec)
	b := writeSpec(t, dir, "b.json", `{"openapi":"3.1.0"}`)
	writeSpec(t, dir, "readme.md", "not a spec")

	resolved, err := ResolvePaths([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, resolved)
}

func TestResolvePathsRecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	top := writeSpec(t, dir, "top.yaml", minimalSpec)
	nested := writeSpec(t, dir, filepath.Join("team-a", "svc", "api.yml"), minimalSpec)

	resolved, err := ResolvePaths([]string{filepath.Join(dir, "**", "*.y*ml")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, resolved)
}

func TestResolvePathsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "api.yaml", minimalSpec)

	resolved, err := ResolvePaths([]string{path, filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, resolved)
}

func TestLoadParsesDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSpec(t, dir, "api.yaml", minimalSpec)

	specs, err := Load([]string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Widget API", specs[0].Doc.At("info", "title").StrOr(""))
}

func TestLoadFileBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeSpec(t, dir, "broken.yaml", "openapi: [unclosed")

	_, err := LoadFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
