package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RESTCatalogConfig holds connection details for a remote exchange catalog.
type RESTCatalogConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// MemoryCatalogConfig points at a local YAML manifest for the in-memory catalog.
type MemoryCatalogConfig struct {
	Manifest string `yaml:"manifest"`
}

// CatalogConfig selects and configures the catalog implementation.
type CatalogConfig struct {
	Type   string               `yaml:"type"`
	REST   *RESTCatalogConfig   `yaml:"rest,omitempty"`
	Memory *MemoryCatalogConfig `yaml:"memory,omitempty"`
}

// LLMConfig configures the chat-completions client.
type LLMConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// DownloadConfig configures where subscribed files are written.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

// RetrieverConfig tunes the catalog fan-out.
type RetrieverConfig struct {
	Workers int `yaml:"workers"`
}

// LogConfig configures the diagnostic log file.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	LLM       LLMConfig       `yaml:"llm"`
	Download  DownloadConfig  `yaml:"download"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/csvchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/csvchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "csvchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Catalog:   CatalogConfig{Type: "rest"},
		Download:  DownloadConfig{Dir: "./data"},
		Retriever: RetrieverConfig{Workers: 4},
		Log:       LogConfig{File: "csvchat.log", Level: "debug"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Catalog.Type == "" {
		cfg.Catalog.Type = "rest"
	}
	if cfg.Catalog.Type == "rest" {
		if cfg.Catalog.REST == nil {
			cfg.Catalog.REST = &RESTCatalogConfig{}
		}
		if cfg.Catalog.REST.BaseURL == "" {
			cfg.Catalog.REST.BaseURL = "http://localhost:8080"
		}
		if cfg.Catalog.REST.APIKeyEnv == "" {
			cfg.Catalog.REST.APIKeyEnv = "CATALOG_API_KEY"
		}
		if cfg.Catalog.REST.TimeoutSecs == 0 {
			cfg.Catalog.REST.TimeoutSecs = 15
		}
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4"
	}
	if cfg.LLM.TimeoutSecs == 0 {
		cfg.LLM.TimeoutSecs = 60
	}
	if cfg.Download.Dir == "" {
		cfg.Download.Dir = "./data"
	}
	if cfg.Retriever.Workers == 0 {
		cfg.Retriever.Workers = 4
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "csvchat.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
	}
}
