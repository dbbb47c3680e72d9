package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the job store. DatabaseURL selects the durable
// primary backend; when empty or unreachable the store degrades to
// process-local fallback storage.
type StoreConfig struct {
	DatabaseURL       string `yaml:"database_url" mapstructure:"database_url"`
	JobTTLHours       int    `yaml:"job_ttl_hours" mapstructure:"job_ttl_hours"`
	SweepIntervalSecs int    `yaml:"sweep_interval_secs" mapstructure:"sweep_interval_secs"`
}

// AnthropicConfig holds Anthropic API settings for report generation.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ResearchConfig configures the deep research orchestrator.
type ResearchConfig struct {
	JobTimeoutSecs    int `yaml:"job_timeout_secs" mapstructure:"job_timeout_secs"`
	SectionRetries    int `yaml:"section_retries" mapstructure:"section_retries"`
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs" mapstructure:"max_concurrent_jobs"`
}

// ScoringConfig configures the scoring engine. scoring.DefaultConfig
// documents the defaults; values here override them.
type ScoringConfig struct {
	IngredientSafetyWeight float64 `yaml:"ingredient_safety_weight" mapstructure:"ingredient_safety_weight"`
	ProcessingWeight       float64 `yaml:"processing_weight" mapstructure:"processing_weight"`
	CorporateWeight        float64 `yaml:"corporate_weight" mapstructure:"corporate_weight"`
	SupplyChainWeight      float64 `yaml:"supply_chain_weight" mapstructure:"supply_chain_weight"`

	UnknownHazard int `yaml:"unknown_hazard" mapstructure:"unknown_hazard"`

	HighlyProcessedThreshold int `yaml:"highly_processed_threshold" mapstructure:"highly_processed_threshold"`
	UltraProcessedThreshold  int `yaml:"ultra_processed_threshold" mapstructure:"ultra_processed_threshold"`

	CorporateBase int `yaml:"corporate_base" mapstructure:"corporate_base"`

	SupplyChainBase      int `yaml:"supply_chain_base" mapstructure:"supply_chain_base"`
	CertificationBonus   int `yaml:"certification_bonus" mapstructure:"certification_bonus"`
	MonocultureThreshold int `yaml:"monoculture_threshold" mapstructure:"monoculture_threshold"`
	MonoculturePenalty   int `yaml:"monoculture_penalty" mapstructure:"monoculture_penalty"`
}

// ServerConfig configures the HTTP server.
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
	v.SetEnvPrefix("TRUELABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.job_ttl_hours", 24)
	v.SetDefault("store.sweep_interval_secs", 300)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("research.job_timeout_secs", 60)
	v.SetDefault("research.section_retries", 2)
	v.SetDefault("research.max_concurrent_jobs", 8)
	v.SetDefault("scoring.ingredient_safety_weight", 0.45)
	v.SetDefault("scoring.processing_weight", 0.25)
	v.SetDefault("scoring.corporate_weight", 0.15)
	v.SetDefault("scoring.supply_chain_weight", 0.15)
	v.SetDefault("scoring.unknown_hazard", 50)
	v.SetDefault("scoring.highly_processed_threshold", 3)
	v.SetDefault("scoring.ultra_processed_threshold", 5)
	v.SetDefault("scoring.corporate_base", 80)
	v.SetDefault("scoring.supply_chain_base", 50)
	v.SetDefault("scoring.certification_bonus", 15)
	v.SetDefault("scoring.monoculture_threshold", 3)
	v.SetDefault("scoring.monoculture_penalty", 15)

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
