package patch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const vitePackageJSON = `{
  "name": "my-repo",
  "private": true,
  "version": "0.0.0",
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "vite build",
    "preview": "vite preview"
  },
  "dependencies": {
    "react": "^19.1.0"
  }
}
`

func TestPatchPackageJSON(t *testing.T) {
	out, changed, err := PatchPackageJSON([]byte(vitePackageJSON), PackageOptions{
		Homepage: "https://alice.github.io/my-repo/",
	})
	require.NoError(t, err)
	require.True(t, changed)

	assert.Equal(t, "npm run build", gjson.GetBytes(out, "scripts.predeploy").String())
	assert.Equal(t, "gh-pages -d dist", gjson.GetBytes(out, "scripts.deploy").String())
	assert.Equal(t, "https://alice.github.io/my-repo/", gjson.GetBytes(out, "homepage").String())
	assert.Equal(t, "vite build", gjson.GetBytes(out, "scripts.build").String())
	assert.True(t, gjson.GetBytes(out, "private").Bool())

	s := string(out)
	assert.Less(t, strings.Index(s, `"name"`), strings.Index(s, `"scripts"`), "key order kept")
	assert.Less(t, strings.Index(s, `"dev"`), strings.Index(s, `"predeploy"`))
	assert.Contains(t, s, "\n    \"deploy\": \"gh-pages -d dist\"", "re-indented with two spaces")

	again, changed, err := PatchPackageJSON(out, PackageOptions{Homepage: "https://alice.github.io/my-repo/"})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}

func TestPatchPackageJSONOverwritesStaleValues(t *testing.T) {
	src := `{"scripts":{"deploy":"gh-pages -d build","predeploy":"npm run build"},"homepage":"x"}`
	out, changed, err := PatchPackageJSON([]byte(src), PackageOptions{DeployDir: "dist"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "gh-pages -d dist", gjson.GetBytes(out, "scripts.deploy").String())
	assert.Equal(t, "x", gjson.GetBytes(out, "homepage").String(), "empty homepage leaves the field alone")
}

func TestPatchPackageJSONCreatesScripts(t *testing.T) {
	out, changed, err := PatchPackageJSON([]byte(`{"name":"a"}`), PackageOptions{PagesCommand: "npx gh-pages", DeployDir: "out", BuildScript: "build:prod"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "npm run build:prod", gjson.GetBytes(out, "scripts.predeploy").String())
	assert.Equal(t, "npx gh-pages -d out", gjson.GetBytes(out, "scripts.deploy").String())
	assert.False(t, gjson.GetBytes(out, "homepage").Exists())
}

func TestPatchPackageJSONUnchanged(t *testing.T) {
	src := []byte(`{"scripts":{"predeploy":"npm run build","deploy":"gh-pages -d dist"}}`)
	out, changed, err := PatchPackageJSON(src, PackageOptions{})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, src, out)
}

func TestPatchPackageJSONMalformed(t *testing.T) {
	for _, src := range []string{"", "{", "[]", `"str"`, `{"a":}`} {
		_, _, err := PatchPackageJSON([]byte(src), PackageOptions{})
		assert.ErrorIs(t, err, ErrMalformedPackageJSON, src)
	}
}

func TestPatchPackageJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")

	_, err := PatchPackageJSONFile(context.Background(), path, PackageOptions{}, time.Second)
	require.ErrorIs(t, err, ErrIO, "missing package.json is an error")

	require.NoError(t, os.WriteFile(path, []byte(vitePackageJSON), 0o644))
	changed, err := PatchPackageJSONFile(context.Background(), path, PackageOptions{}, time.Second)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gh-pages -d dist", gjson.GetBytes(data, "scripts.deploy").String())

	changed, err = PatchPackageJSONFile(context.Background(), path, PackageOptions{}, time.Second)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = PatchPackageJSONFile(context.Background(), path, PackageOptions{}, time.Second)
	assert.ErrorIs(t, err, ErrMalformedPackageJSON)
}

func TestPatchPackageJSONKeepsArraysExpanded(t *testing.T) {
	src := `{
  "name": "my-repo",
  "files": [
    "dist"
  ],
  "keywords": [
    "vite",
    "react"
  ],
  "scripts": {
    "build": "vite build"
  }
}
`
	out, changed, err := PatchPackageJSON([]byte(src), PackageOptions{})
	require.NoError(t, err)
	require.True(t, changed)

	s := string(out)
	assert.Contains(t, s, "\"files\": [\n    \"dist\"\n  ]")
	assert.Contains(t, s, "\"keywords\": [\n    \"vite\",\n    \"react\"\n  ]")
	assert.Equal(t, "gh-pages -d dist", gjson.GetBytes(out, "scripts.deploy").String())
}
