package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/hope/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hope", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[selector]
type = "4gram"
num_limit = 512
workers = 3

[sample]
percent = 10
seed = 99

[server]
max_query_len = 64

[cli]
encode = true
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	typ, err := cfg.Selector.SelectorType()
	require.NoError(t, err)
	assert.Equal(t, selector.NGram4Type, typ)
	assert.Equal(t, 512, cfg.Selector.NumLimit)
	assert.Equal(t, 3, cfg.Selector.Workers)
	assert.Equal(t, SampleConfig{Percent: 10, Seed: 99}, cfg.Sample)
	assert.Equal(t, 64, cfg.Server.MaxQueryLen)
	assert.Equal(t, DefaultConfig().Server.MaxBatch, cfg.Server.MaxBatch)
	assert.True(t, cfg.CLI.Encode)
	assert.True(t, cfg.CLI.ShowHex)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// num_limit has the wrong type, so strict decoding fails.
	require.NoError(t, os.WriteFile(path, []byte(`
[selector]
type = "double"
num_limit = "lots"

[sample]
percent = 250
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "double", cfg.Selector.Type)
	assert.Equal(t, DefaultConfig().Selector.NumLimit, cfg.Selector.NumLimit)
	assert.Equal(t, 100, cfg.Sample.Percent)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Selector: SelectorConfig{Type: "bogus"}}
	cfg.Validate()
	def := DefaultConfig()
	assert.Equal(t, def.Selector.Type, cfg.Selector.Type)
	assert.Equal(t, def.Selector.NumLimit, cfg.Selector.NumLimit)
	assert.Equal(t, 1, cfg.Selector.Workers)
	assert.Equal(t, def.Server, cfg.Server)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, SaveConfig(&Config{
		Selector: SelectorConfig{Type: "single", NumLimit: 10, Workers: 1},
		Sample:   SampleConfig{Percent: 50},
		Server:   ServerConfig{MaxQueryLen: 10, MaxBatch: 2},
	}, path))

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "single", cfg.Selector.Type)
	assert.Equal(t, 50, cfg.Sample.Percent)
	assert.Equal(t, path, GetActiveConfigPath(path))
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	typ, limit := "single", 300
	require.NoError(t, cfg.Update(path, &typ, &limit, nil))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "single", loaded.Selector.Type)
	assert.Equal(t, 300, loaded.Selector.NumLimit)
	assert.Equal(t, 100, loaded.Sample.Percent)
}
