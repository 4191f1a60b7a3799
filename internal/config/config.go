// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/harvest-cli/internal/category"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Serper    SerperConfig    `yaml:"serper" mapstructure:"serper"`
	Reader    ReaderConfig    `yaml:"reader" mapstructure:"reader"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Compact   CompactConfig   `yaml:"compact" mapstructure:"compact"`
	Harvest   HarvestConfig   `yaml:"harvest" mapstructure:"harvest"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`

	// Categories extends or overrides the built-in category alias table.
	Categories []category.Category `yaml:"categories" mapstructure:"categories"`
	// Domains adds organization → athletics domain mappings.
	Domains map[string]string `yaml:"domains" mapstructure:"domains"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds search provider settings.
type SerperConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ReaderConfig holds the plain-text reader service settings.
type ReaderConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings for extraction.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SearchConfig configures query planning and candidate selection.
type SearchConfig struct {
	MaxQueries     int     `yaml:"max_queries" mapstructure:"max_queries"`
	ResultsPerPage int     `yaml:"results_per_page" mapstructure:"results_per_page"`
	StopScore      int     `yaml:"stop_score" mapstructure:"stop_score"`
	MinScore       int     `yaml:"min_score" mapstructure:"min_score"`
	PacingMillis   int     `yaml:"pacing_millis" mapstructure:"pacing_millis"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Weights        Weights `yaml:"weights" mapstructure:"weights"`
}

// Weights holds the result-scoring deltas. The defaults are empirically
// tuned; override with care.
type Weights struct {
	KnownDomain     int `yaml:"known_domain" mapstructure:"known_domain"`
	EduDomain       int `yaml:"edu_domain" mapstructure:"edu_domain"`
	AthleticsDomain int `yaml:"athletics_domain" mapstructure:"athletics_domain"`
	NoDomainSignal  int `yaml:"no_domain_signal" mapstructure:"no_domain_signal"`
	StaffURLHint    int `yaml:"staff_url_hint" mapstructure:"staff_url_hint"`
	StaffTitle      int `yaml:"staff_title" mapstructure:"staff_title"`
	AliasInTitle    int `yaml:"alias_in_title" mapstructure:"alias_in_title"`
	AliasInSnippet  int `yaml:"alias_in_snippet" mapstructure:"alias_in_snippet"`
	AliasInURL      int `yaml:"alias_in_url" mapstructure:"alias_in_url"`
	EmailInSnippet  int `yaml:"email_in_snippet" mapstructure:"email_in_snippet"`
	NegativeURLTerm int `yaml:"negative_url_term" mapstructure:"negative_url_term"`
	NegativeTitle   int `yaml:"negative_title" mapstructure:"negative_title"`
}

// ScrapeConfig configures the content retrieval chain.
type ScrapeConfig struct {
	TimeoutSecs     int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinContentChars int `yaml:"min_content_chars" mapstructure:"min_content_chars"`
}

// CompactConfig configures content compaction.
type CompactConfig struct {
	MaxChars      int `yaml:"max_chars" mapstructure:"max_chars"`
	MinKeptChars  int `yaml:"min_kept_chars" mapstructure:"min_kept_chars"`
	FallbackLines int `yaml:"fallback_lines" mapstructure:"fallback_lines"`
	MaxEmailHints int `yaml:"max_email_hints" mapstructure:"max_email_hints"`
}

// HarvestConfig configures batch harvesting.
type HarvestConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the results API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "harvest.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("reader.base_url", "https://r.jina.ai")

	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.1)
	v.SetDefault("anthropic.timeout_secs", 60)

	v.SetDefault("search.max_queries", 4)
	v.SetDefault("search.results_per_page", 8)
	v.SetDefault("search.stop_score", 70)
	v.SetDefault("search.min_score", -10)
	v.SetDefault("search.pacing_millis", 200)
	v.SetDefault("search.timeout_secs", 20)
	v.SetDefault("search.weights.known_domain", 35)
	v.SetDefault("search.weights.edu_domain", 20)
	v.SetDefault("search.weights.athletics_domain", 25)
	v.SetDefault("search.weights.no_domain_signal", 5)
	v.SetDefault("search.weights.staff_url_hint", 30)
	v.SetDefault("search.weights.staff_title", 15)
	v.SetDefault("search.weights.alias_in_title", 8)
	v.SetDefault("search.weights.alias_in_snippet", 6)
	v.SetDefault("search.weights.alias_in_url", 6)
	v.SetDefault("search.weights.email_in_snippet", 25)
	v.SetDefault("search.weights.negative_url_term", -35)
	v.SetDefault("search.weights.negative_title", -20)

	v.SetDefault("scrape.timeout_secs", 20)
	v.SetDefault("scrape.min_content_chars", 500)

	v.SetDefault("compact.max_chars", 12000)
	v.SetDefault("compact.min_kept_chars", 800)
	v.SetDefault("compact.fallback_lines", 200)
	v.SetDefault("compact.max_email_hints", 50)

	v.SetDefault("harvest.concurrency", 1)
}

// Validate checks that the configuration is usable for the given mode
// ("harvest" or "serve"). Missing values are collected so the operator
// sees every problem at once.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "harvest":
		if c.Serper.Key == "" {
			problems = append(problems, "serper.key is required")
		}
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Harvest.Concurrency < 1 || c.Harvest.Concurrency > 50 {
		problems = append(problems, "harvest.concurrency must be between 1 and 50")
	}
	if c.Search.MaxQueries < 1 {
		problems = append(problems, "search.max_queries must be >= 1")
	}
	if c.Compact.MaxChars < c.Compact.MinKeptChars {
		problems = append(problems, "compact.max_chars must be >= compact.min_kept_chars")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
