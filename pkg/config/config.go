package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"holdersnap/pkg/chains"
)

const ConfigFileName = ".holdersnap.json"

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultHolderAccount is the account address sent with every balance
// lookup unless the configuration overrides it.
const DefaultHolderAccount = "0x831dE831A64405aF965C67d6E0De2F9876fa2d99"

const DefaultMetadataURL = "https://metadata.sequence.app"

// ChainConfig overrides the built-in settings of one supported chain.
type ChainConfig struct {
	ChainID    int64    `json:"chain_id"`
	IndexerURL string   `json:"indexer_url,omitempty"`
	RPCURLs    []string `json:"rpc_urls,omitempty"`
}

// Config holds application-wide settings.
type Config struct {
	SelectedChain         chains.ID     `json:"selected_chain"`
	Theme                 string        `json:"theme"`
	HolderAccount         string        `json:"holder_account"`
	MetadataURL           string        `json:"metadata_url"`
	AccessKey             string        `json:"access_key,omitempty"`
	MaxPages              int           `json:"max_pages"`
	RequestTimeoutSeconds int           `json:"request_timeout_seconds"`
	RequestsPerSecond     float64       `json:"requests_per_second"`
	ExportDir             string        `json:"export_dir"`
	LogFile               string        `json:"log_file"`
	LogLevel              string        `json:"log_level"`
	SnapshotTTLSeconds    int           `json:"snapshot_ttl_seconds"`
	Chains                []ChainConfig `json:"chains,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SelectedChain:      chains.Default,
		Theme:              ThemeDark,
		HolderAccount:      DefaultHolderAccount,
		MetadataURL:        DefaultMetadataURL,
		ExportDir:          ".",
		LogLevel:           "info",
		SnapshotTTLSeconds: 600,
	}
}

// IndexerURL returns the indexer endpoint for a chain, honouring overrides.
func (c Config) IndexerURL(chain chains.Chain) string {
	for _, cc := range c.Chains {
		if chains.ID(cc.ChainID) == chain.ID && cc.IndexerURL != "" {
			return strings.TrimRight(cc.IndexerURL, "/")
		}
	}
	return chain.IndexerURL
}

// RPCURLs returns the JSON-RPC endpoints configured for a chain.
func (c Config) RPCURLs(chain chains.Chain) []string {
	for _, cc := range c.Chains {
		if chains.ID(cc.ChainID) == chain.ID {
			return cc.RPCURLs
		}
	}
	return nil
}

// RequestTimeout is zero when requests should never time out.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// Validate reports every structural problem found in the configuration.
func (c Config) Validate() []string {
	var problems []string
	if _, ok := chains.ByID(c.SelectedChain); !ok {
		problems = append(problems, fmt.Sprintf("selected_chain %d is not a supported chain", c.SelectedChain))
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		problems = append(problems, fmt.Sprintf("theme must be %q or %q, got %q", ThemeDark, ThemeLight, c.Theme))
	}
	if strings.TrimSpace(c.MetadataURL) == "" {
		problems = append(problems, "metadata_url is empty")
	}
	if c.MaxPages < 0 {
		problems = append(problems, "max_pages must not be negative")
	}
	if c.RequestTimeoutSeconds < 0 {
		problems = append(problems, "request_timeout_seconds must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		problems = append(problems, "requests_per_second must not be negative")
	}
	for i, cc := range c.Chains {
		if _, ok := chains.ByID(chains.ID(cc.ChainID)); !ok {
			problems = append(problems, fmt.Sprintf("chain override at index %d has unsupported chain_id %d", i, cc.ChainID))
		}
	}
	return problems
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

// LoadConfig decodes a configuration, filling unset keys with defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var raw struct {
		SelectedChain         *chains.ID    `json:"selected_chain"`
		Theme                 *string       `json:"theme"`
		HolderAccount         *string       `json:"holder_account"`
		MetadataURL           *string       `json:"metadata_url"`
		AccessKey             string        `json:"access_key"`
		MaxPages              *int          `json:"max_pages"`
		RequestTimeoutSeconds *int          `json:"request_timeout_seconds"`
		RequestsPerSecond     *float64      `json:"requests_per_second"`
		ExportDir             *string       `json:"export_dir"`
		LogFile               *string       `json:"log_file"`
		LogLevel              *string       `json:"log_level"`
		SnapshotTTLSeconds    *int          `json:"snapshot_ttl_seconds"`
		Chains                []ChainConfig `json:"chains"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.AccessKey = raw.AccessKey
	cfg.Chains = raw.Chains
	if raw.SelectedChain != nil {
		cfg.SelectedChain = *raw.SelectedChain
	}
	if raw.Theme != nil {
		cfg.Theme = strings.ToLower(*raw.Theme)
	}
	// An explicit empty holder_account means "do not send one".
	if raw.HolderAccount != nil {
		cfg.HolderAccount = strings.TrimSpace(*raw.HolderAccount)
	}
	if raw.MetadataURL != nil {
		cfg.MetadataURL = strings.TrimRight(*raw.MetadataURL, "/")
	}
	if raw.MaxPages != nil {
		cfg.MaxPages = *raw.MaxPages
	}
	if raw.RequestTimeoutSeconds != nil {
		cfg.RequestTimeoutSeconds = *raw.RequestTimeoutSeconds
	}
	if raw.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if raw.ExportDir != nil && *raw.ExportDir != "" {
		cfg.ExportDir = *raw.ExportDir
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.LogLevel != nil && *raw.LogLevel != "" {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.SnapshotTTLSeconds != nil {
		cfg.SnapshotTTLSeconds = *raw.SnapshotTTLSeconds
	}

	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if problems := cfg.Validate(); len(problems) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(problems, "; "))
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if len(data) == 0 {
		return fmt.Errorf("validation failed: encoded configuration is empty")
	}

	// Create a backup of the existing file
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}
