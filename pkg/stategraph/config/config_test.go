package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return New(map[string]any{
		"name":    "stategraph",
		"debug":   true,
		"retries": 3,
		"ratio":   0.25,
		"count":   float64(7),
		"frac":    7.5,
		"timeout": "30s",
		"delay":   float64(2),
		"tags":    []any{"a", "b"},
		"mixed":   []any{"a", 1},
		"model": map[string]any{
			"provider": "openai",
			"options": map[string]any{
				"temperature": 0.7,
			},
		},
	})
}

func TestNew_NilMap(t *testing.T) {
	c := New(nil)
	assert.False(t, c.Has("anything"))
	assert.Equal(t, "fallback", c.String("anything", "fallback"))
}

func TestAccessors(t *testing.T) {
	c := testConfig()

	assert.Equal(t, "stategraph", c.String("name", ""))
	assert.Equal(t, "x", c.String("missing", "x"))
	assert.Equal(t, "x", c.String("retries", "x"))

	assert.True(t, c.Bool("debug", false))
	assert.False(t, c.Bool("missing", false))

	assert.Equal(t, 3, c.Int("retries", 0))
	assert.Equal(t, 7, c.Int("count", 0))
	assert.Equal(t, 9, c.Int("frac", 9))
	assert.Equal(t, 9, c.Int("missing", 9))

	assert.Equal(t, 0.25, c.Float("ratio", 0))
	assert.Equal(t, 3.0, c.Float("retries", 0))
	assert.Equal(t, 1.5, c.Float("missing", 1.5))

	assert.Equal(t, []string{"a", "b"}, c.StringSlice("tags", nil))
	assert.Equal(t, []string{"z"}, c.StringSlice("mixed", []string{"z"}))
	assert.Equal(t, []string{"z"}, c.StringSlice("missing", []string{"z"}))

	assert.True(t, c.Has("name"))
	assert.False(t, c.Has("missing"))
}

func TestDuration(t *testing.T) {
	c := testConfig()

	assert.Equal(t, 30*time.Second, c.Duration("timeout", 0))
	assert.Equal(t, 2*time.Second, c.Duration("delay", 0))
	assert.Equal(t, time.Minute, c.Duration("missing", time.Minute))
	assert.Equal(t, time.Minute, c.Duration("name", time.Minute))
}

func TestSection(t *testing.T) {
	c := testConfig()

	assert.Equal(t, "openai", c.Section("model").String("provider", ""))
	assert.Equal(t, 0.7, c.Section("model").Section("options").Float("temperature", 0))

	// Missing and non-map sections chain safely.
	assert.Equal(t, 5, c.Section("ghost").Int("n", 5))
	assert.Equal(t, 5, c.Section("name").Int("n", 5))
	assert.Equal(t, "x", c.Section("ghost").Section("deeper").String("k", "x"))
}

func TestFromYAML(t *testing.T) {
	c, err := FromYAML([]byte(`
model:
  provider: anthropic
  max_tokens: 2048
search:
  max_results: 5
`))
	require.NoError(t, err)

	assert.Equal(t, "anthropic", c.Section("model").String("provider", ""))
	assert.Equal(t, 2048, c.Section("model").Int("max_tokens", 0))
	assert.Equal(t, 5, c.Section("search").Int("max_results", 0))
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte("model: [unclosed"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON([]byte(`{"model": {"provider": "openai", "temperature": 0.5}}`))
	require.NoError(t, err)

	assert.Equal(t, "openai", c.Section("model").String("provider", ""))
	assert.Equal(t, 0.5, c.Section("model").Float("temperature", 0))
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: from-yaml\n"), 0o644))

	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "from-json"}`), 0o644))

	t.Run("yaml", func(t *testing.T) {
		c, err := FromFile(yamlPath)
		require.NoError(t, err)
		assert.Equal(t, "from-yaml", c.String("name", ""))
	})

	t.Run("json", func(t *testing.T) {
		c, err := FromFile(jsonPath)
		require.NoError(t, err)
		assert.Equal(t, "from-json", c.String("name", ""))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		tomlPath := filepath.Join(dir, "app.toml")
		require.NoError(t, os.WriteFile(tomlPath, []byte("name = 'x'"), 0o644))

		_, err := FromFile(tomlPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".toml")
	})
}
