package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestResolveDefaults(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"go.mod": "module github.com/example/sprout\n\ngo 1.24.0\n",
	})

	resolved, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "github.com/example/sprout", resolved.ModulePath)
	assert.Equal(t, "sprout", resolved.AppName)
	assert.Equal(t, filepath.Join("ui", "main.yaml"), resolved.Entry)
	assert.Equal(t, 640, resolved.Width)
	assert.Equal(t, 480, resolved.Height)
}

func TestResolveReadsFernYAML(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"go.mod": "module example.com/app\n",
		"fern.yaml": `
app:
  name: garden
template:
  entry: templates/root.yaml
render:
  width: 100
  height: 50
`,
	})

	resolved, err := Resolve(dir)
	require.NoError(t, err)

	assert.Equal(t, "garden", resolved.AppName)
	assert.Equal(t, "templates/root.yaml", resolved.Entry)
	assert.Equal(t, 100, resolved.Width)
	assert.Equal(t, 50, resolved.Height)
}

func TestResolveVersionedModulePath(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"go.mod": "module github.com/example/garden/v2\n",
	})

	resolved, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "garden", resolved.AppName)
}

func TestResolveWithoutGoMod(t *testing.T) {
	_, err := Resolve(t.TempDir())
	require.Error(t, err)
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadOptionalInvalidYAML(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"fern.yaml": "app: [broken",
	})
	_, err := LoadOptional(dir)
	require.Error(t, err)
}
