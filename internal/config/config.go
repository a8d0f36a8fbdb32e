// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/sol-search/internal/classification"
	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/dispatch"
	"github.com/Veraticus/sol-search/internal/engine"
	"github.com/Veraticus/sol-search/internal/llm"
	"github.com/Veraticus/sol-search/internal/pattern"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. SOLSEARCH_LLM_PROVIDER.
const EnvPrefix = "SOLSEARCH"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// anchorLayout is the format of nlp.anchor_date.
const anchorLayout = "2006-01-02"

// Config is the application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	NLP      NLPConfig      `mapstructure:"nlp"`
	Search   SearchConfig   `mapstructure:"search"`
	Transfer TransferConfig `mapstructure:"transfer"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LLMConfig configures the model-backed classifier.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   int           `mapstructure:"rate_limit"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Enabled     bool          `mapstructure:"enabled"`
}

// NLPConfig configures classification and intent resolution.
type NLPConfig struct {
	AnchorDate         string   `mapstructure:"anchor_date"`
	MergePolicy        string   `mapstructure:"merge_policy"`
	MinModelConfidence float64  `mapstructure:"min_model_confidence"`
	ExtraStopWords     []string `mapstructure:"extra_stop_words"`
	ExtraMerchants     []string `mapstructure:"extra_merchants"`
}

// SearchConfig bounds search results.
type SearchConfig struct {
	RecentLimit  int `mapstructure:"recent_limit"`
	MaxResults   int `mapstructure:"max_results"`
	ContactLimit int `mapstructure:"contact_limit"`
}

// TransferConfig bounds a single transfer amount in won.
type TransferConfig struct {
	MinAmount int64 `mapstructure:"min_amount"`
	MaxAmount int64 `mapstructure:"max_amount"`
}

// StorageConfig selects the transaction store.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	SeedFile string `mapstructure:"seed_file"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// providerKeyEnv maps a provider to the environment variable holding its key.
var providerKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	dispatchDefaults := dispatch.DefaultConfig()
	engineDefaults := engine.DefaultConfig()

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", engineDefaults.ModelTimeout)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.cache_ttl", 10*time.Minute)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.enabled", true)

	v.SetDefault("nlp.anchor_date", "")
	v.SetDefault("nlp.merge_policy", string(engine.FallbackOnly))
	v.SetDefault("nlp.min_model_confidence", 0.0)
	v.SetDefault("nlp.extra_stop_words", []string{})
	v.SetDefault("nlp.extra_merchants", []string{})

	v.SetDefault("search.recent_limit", dispatchDefaults.RecentLimit)
	v.SetDefault("search.max_results", dispatchDefaults.MaxResults)
	v.SetDefault("search.contact_limit", dispatchDefaults.ContactLimit)

	v.SetDefault("transfer.min_amount", dispatchDefaults.MinTransferAmount)
	v.SetDefault("transfer.max_amount", dispatchDefaults.MaxTransferAmount)

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.path", "~/.local/share/solsearch/transactions.db")
	v.SetDefault("storage.seed_file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 15*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// BindEnv makes every key overridable from SOLSEARCH_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil viper instance", common.ErrMissingConfig)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Storage.SeedFile = ExpandPath(cfg.Storage.SeedFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Transfer.MinAmount < 0 || c.Transfer.MaxAmount <= 0 {
		return invalid("transfer amounts must be positive")
	}
	if c.Transfer.MinAmount >= c.Transfer.MaxAmount {
		return invalid("transfer.min_amount (%d) must be less than transfer.max_amount (%d)",
			c.Transfer.MinAmount, c.Transfer.MaxAmount)
	}
	if c.NLP.MinModelConfidence < 0 || c.NLP.MinModelConfidence > 1 {
		return invalid("nlp.min_model_confidence must be between 0 and 1, got %v", c.NLP.MinModelConfidence)
	}
	if c.Search.RecentLimit <= 0 {
		return invalid("search.recent_limit must be positive")
	}
	if c.Search.MaxResults <= 0 {
		return invalid("search.max_results must be positive")
	}
	if c.Search.ContactLimit <= 0 {
		return invalid("search.contact_limit must be positive")
	}
	if _, err := engine.ParseMergePolicy(c.NLP.MergePolicy); err != nil {
		return err
	}
	if _, err := c.Anchor(); err != nil {
		return err
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return invalid("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return invalid("storage.path is required for the sqlite driver")
		}
	default:
		return invalid("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.LLM.Enabled {
		if _, ok := providerKeyEnv[c.LLM.Provider]; !ok && c.LLM.Provider != "" {
			return invalid("unknown llm.provider %q", c.LLM.Provider)
		}
	}
	return nil
}

// Anchor parses nlp.anchor_date. An empty value yields the zero time.
func (c *Config) Anchor() (time.Time, error) {
	if strings.TrimSpace(c.NLP.AnchorDate) == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(anchorLayout, strings.TrimSpace(c.NLP.AnchorDate), time.UTC)
	if err != nil {
		return time.Time{}, invalid("nlp.anchor_date %q is not YYYY-MM-DD", c.NLP.AnchorDate)
	}
	return t, nil
}

// ModelEnabled reports whether the model tier should be constructed.
func (c *Config) ModelEnabled() bool {
	return c.LLM.Enabled && c.LLM.APIKey != ""
}

// LLMConfig returns the classifier settings.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:      c.LLM.Provider,
		APIKey:        c.LLM.APIKey,
		Model:         c.LLM.Model,
		BaseURL:       c.LLM.BaseURL,
		Timeout:       c.LLM.Timeout,
		CacheTTL:      c.LLM.CacheTTL,
		RateLimit:     c.LLM.RateLimit,
		Temperature:   c.LLM.Temperature,
		MaxTokens:     c.LLM.MaxTokens,
		MinConfidence: c.NLP.MinModelConfidence,
	}
}

// EngineConfig returns the resolver settings. Call it only on a validated Config.
func (c *Config) EngineConfig() engine.Config {
	anchor, _ := c.Anchor()
	policy, _ := engine.ParseMergePolicy(c.NLP.MergePolicy)
	return engine.Config{
		AnchorDate:   anchor,
		MergePolicy:  policy,
		ModelTimeout: c.LLM.Timeout,
	}
}

// DispatchConfig returns the dispatcher settings. Call it only on a validated Config.
func (c *Config) DispatchConfig() dispatch.Config {
	anchor, _ := c.Anchor()
	return dispatch.Config{
		AnchorDate:        anchor,
		RecentLimit:       c.Search.RecentLimit,
		MaxResults:        c.Search.MaxResults,
		ContactLimit:      c.Search.ContactLimit,
		MinTransferAmount: c.Transfer.MinAmount,
		MaxTransferAmount: c.Transfer.MaxAmount,
	}
}

// PatternOptions returns the lexicon extensions.
func (c *Config) PatternOptions() pattern.Options {
	return pattern.Options{
		ExtraStopWords: c.NLP.ExtraStopWords,
		ExtraMerchants: c.NLP.ExtraMerchants,
	}
}

// NewExtractor builds the rule-based extractor from the lexicon extensions.
func (c *Config) NewExtractor() (*classification.Extractor, error) {
	lib, err := pattern.NewLibrary(c.PatternOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return classification.NewExtractor(lib), nil
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
