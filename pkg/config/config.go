/*
Package config manages the TOML config of the hope encoder: selector
training parameters, key sampling, the lookup server and the REPL.
*/
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/bastiangx/hope/internal/utils"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Selector SelectorConfig `toml:"selector"`
	Sample   SampleConfig   `toml:"sample"`
	Server   ServerConfig   `toml:"server"`
	CLI      CliConfig      `toml:"cli"`
}

// SelectorConfig picks the symbol selector used for training.
type SelectorConfig struct {
	Type     string `toml:"type"`
	NumLimit int    `toml:"num_limit"`
	Workers  int    `toml:"workers"`
}

// SampleConfig controls how much of the key corpus is used for training.
type SampleConfig struct {
	Percent int   `toml:"percent"`
	Seed    int64 `toml:"seed"`
}

// ServerConfig has lookup server options.
type ServerConfig struct {
	MaxQueryLen int `toml:"max_query_len"`
	MaxBatch    int `toml:"max_batch"`
}

// CliConfig holds REPL options.
type CliConfig struct {
	ShowHex bool `toml:"show_hex"`
	Encode  bool `toml:"encode"`
}

// SelectorType parses the configured selector name.
func (s SelectorConfig) SelectorType() (selector.Type, error) {
	return selector.ParseType(s.Type)
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/hope
// 2. ~/Library/Application Support/hope (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	candidates := []string{filepath.Join(homeDir, ".config", "hope")}
	if runtime.GOOS == "darwin" {
		candidates = append(candidates, filepath.Join(homeDir, "Library", "Application Support", "hope"))
	}
	for _, dir := range candidates {
		if result := utils.CheckDirStatus(dir); result.Writable {
			return dir, nil
		}
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/hope/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			Type:     selector.NGram3Type.String(),
			NumLimit: 10000,
			Workers:  runtime.NumCPU(),
		},
		Sample: SampleConfig{
			Percent: 100,
			Seed:    1,
		},
		Server: ServerConfig{
			MaxQueryLen: 4096,
			MaxBatch:    1024,
		},
		CLI: CliConfig{
			ShowHex: true,
			Encode:  false,
		},
	}
}

// Validate replaces out-of-range values with their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if _, err := c.Selector.SelectorType(); err != nil {
		log.Warnf("Unknown selector %q, using %s", c.Selector.Type, def.Selector.Type)
		c.Selector.Type = def.Selector.Type
	}
	if c.Selector.NumLimit < 2 {
		c.Selector.NumLimit = def.Selector.NumLimit
	}
	if c.Selector.Workers < 1 {
		c.Selector.Workers = 1
	}
	if c.Sample.Percent <= 0 || c.Sample.Percent > 100 {
		c.Sample.Percent = def.Sample.Percent
	}
	if c.Server.MaxQueryLen <= 0 {
		c.Server.MaxQueryLen = def.Server.MaxQueryLen
	}
	if c.Server.MaxBatch <= 0 {
		c.Server.MaxBatch = def.Server.MaxBatch
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages the well-typed keys of each section
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "selector"); ok {
		extractSelectorConfig(section, &config.Selector)
	}
	if section, ok := utils.ExtractSection(raw, "sample"); ok {
		extractSampleConfig(section, &config.Sample)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.Validate()
	return config, nil
}

func extractSelectorConfig(data map[string]any, sel *SelectorConfig) {
	if val, ok := utils.ExtractString(data, "type"); ok {
		sel.Type = val
	}
	if val, ok := utils.ExtractInt64(data, "num_limit"); ok {
		sel.NumLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		sel.Workers = val
	}
}

func extractSampleConfig(data map[string]any, sample *SampleConfig) {
	if val, ok := utils.ExtractInt64(data, "percent"); ok {
		sample.Percent = val
	}
	if val, ok := utils.ExtractInt64(data, "seed"); ok {
		sample.Seed = int64(val)
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_batch"); ok {
		server.MaxBatch = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_hex"); ok {
		cli.ShowHex = val
	}
	if val, ok := utils.ExtractBool(data, "encode"); ok {
		cli.Encode = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the training values and saves to file
func (c *Config) Update(configPath string, selectorType *string, numLimit, percent *int) error {
	if selectorType != nil {
		c.Selector.Type = *selectorType
	}
	if numLimit != nil {
		c.Selector.NumLimit = *numLimit
	}
	if percent != nil {
		c.Sample.Percent = *percent
	}
	c.Validate()
	return SaveConfig(c, configPath)
}
