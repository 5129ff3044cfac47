package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InferenceConfig points at an OpenAI-compatible chat-completions endpoint.
type InferenceConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
	APIKey  string `mapstructure:"apiKey"`
	Model   string `mapstructure:"model"`
}

// VaultConfig points at the encrypted record store.
type VaultConfig struct {
	BaseURL    string `mapstructure:"baseUrl"`
	APIKey     string `mapstructure:"apiKey"`
	Collection string `mapstructure:"collection"`
}

// WalletConfig points at the custodial wallet service.
type WalletConfig struct {
	BaseURL   string `mapstructure:"baseUrl"`
	AppID     string `mapstructure:"appId"`
	AppSecret string `mapstructure:"appSecret"`
	ChainType string `mapstructure:"chainType"`
}

// ProvidersConfig groups every external collaborator endpoint.
type ProvidersConfig struct {
	Inference InferenceConfig `mapstructure:"inference"`
	Vault     VaultConfig     `mapstructure:"vault"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		Inference: InferenceConfig{Model: "meta-llama/Llama-3.1-8B-Instruct"},
		Vault:     VaultConfig{Collection: "task_submissions"},
		Wallet:    WalletConfig{ChainType: "ethereum"},
	}
}

// ProvidersConfigHolder exposes the current provider settings and hot-reloads
// them when the config file changes.
type ProvidersConfigHolder struct {
	current atomic.Value // holds ProvidersConfig
}

func NewProvidersConfigHolder() (*ProvidersConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("providers")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/severatee/config")
	v.AddConfigPath("/etc/severatee")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SEVERATEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultProvidersConfig()
	v.SetDefault("providers.inference", map[string]any{"model": defaults.Inference.Model})
	v.SetDefault("providers.vault", map[string]any{"collection": defaults.Vault.Collection})
	v.SetDefault("providers.wallet", map[string]any{"chainType": defaults.Wallet.ChainType})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ProvidersConfig
	if err := v.UnmarshalKey("providers", &cfg); err != nil {
		return nil, err
	}

	holder := &ProvidersConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ProvidersConfig
		if err := v.UnmarshalKey("providers", &updated); err != nil {
			log.Printf("[providers-config] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[providers-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ProvidersConfigHolder) Get() ProvidersConfig {
	return h.current.Load().(ProvidersConfig)
}
