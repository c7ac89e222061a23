package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/speakeasy-labs/fluency-service/internal/scoring"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("queue.nats_url", "NATS_URL", "APP_QUEUE_NATS_URL")
	viper.BindEnv("queue.rabbitmq_url", "RABBITMQ_URL", "APP_QUEUE_RABBITMQ_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("asr.api_key", "ASR_API_KEY", "APP_ASR_API_KEY")
	viper.BindEnv("asr.base_url", "ASR_BASE_URL", "APP_ASR_BASE_URL")
	viper.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	viper.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "fluency-service")
	viper.SetDefault("http.port", 3000)
	viper.SetDefault("asr.base_url", "https://api.openai.com/v1")
	viper.SetDefault("asr.model", "whisper-1")
	viper.SetDefault("asr.language", "es")
	viper.SetDefault("asr.timeout", "60s")
	viper.SetDefault("evaluation.timeout", "30s")
	viper.SetDefault("evaluation.cache_ttl", "1h")
	viper.SetDefault("evaluation.adjust_by_level", true)
	viper.SetDefault("evaluation.per_level_bands", true)
	viper.SetDefault("audio.ffmpeg_path", "ffmpeg")
	viper.SetDefault("audio.max_duration_sec", 300)
	viper.SetDefault("queue.driver", "nats")
	viper.SetDefault("prometheus.path", "/metrics")
	viper.SetDefault("limits.max_upload_bytes", 25<<20)
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Evaluation.Weights == (scoring.Weights{}) {
		c.Evaluation.Weights = scoring.DefaultWeights()
	}
	if err := c.Evaluation.Weights.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.HTTP.Port)
	}
	switch c.Queue.Driver {
	case "", "nats", "rabbitmq", "none":
	default:
		return fmt.Errorf("config: unknown queue driver %q", c.Queue.Driver)
	}
	return nil
}
