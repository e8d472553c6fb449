// Package config loads the pipeline configuration from defaults, an
// optional YAML file and CREDITRISK_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"creditrisk/internal/domain"
	"creditrisk/internal/features"
	"creditrisk/internal/model"
	"creditrisk/internal/training"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CREDITRISK_"

// Config holds all configuration of the pipeline and its servers.
type Config struct {
	Training    TrainingConfig `yaml:"training"`
	Features    FeatureConfig  `yaml:"features"`
	Log         LogConfig      `yaml:"log"`
	Server      ServerConfig   `yaml:"server"`
	DatabaseURL string         `yaml:"database_url"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	Redis       RedisConfig    `yaml:"redis"`
}

// TrainingConfig controls model fitting and scoring.
type TrainingConfig struct {
	TestFraction   float64  `yaml:"test_fraction"`
	RandomSeed     int64    `yaml:"random_seed"`
	ArtifactPath   string   `yaml:"artifact_path"`
	Threshold      float64  `yaml:"threshold"`
	TargetColumn   string   `yaml:"target_column"`
	Model          string   `yaml:"model"`
	Candidates     []string `yaml:"candidates"`
	ExcludeColumns []string `yaml:"exclude_columns"`
}

// FeatureConfig controls the optional feature steps.
type FeatureConfig struct {
	CapOutliers   bool    `yaml:"cap_outliers"`
	LowerQuantile float64 `yaml:"lower_quantile"`
	UpperQuantile float64 `yaml:"upper_quantile"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig holds the listen ports of serve.
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"`
	GRPCPort string `yaml:"grpc_port"`
}

// KafkaConfig enables event publication when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// RedisConfig enables the prediction cache when Addr is set.
type RedisConfig struct {
	Addr string        `yaml:"addr"`
	TTL  time.Duration `yaml:"ttl"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Training: TrainingConfig{
			TestFraction: 0.2,
			RandomSeed:   42,
			ArtifactPath: "models/credit_model.json",
			Threshold:    0.5,
			TargetColumn: domain.ColHighRisk,
			Model:        string(model.RandomForest),
		},
		Features: FeatureConfig{
			LowerQuantile: 0.01,
			UpperQuantile: 0.99,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			HTTPPort: "8080",
			GRPCPort: "9090",
		},
		Kafka: KafkaConfig{
			Topic: "creditrisk.events",
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "could not read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "could not parse %s", path)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Training.ArtifactPath = getEnv("ARTIFACT_PATH", c.Training.ArtifactPath)
	c.Training.TargetColumn = getEnv("TARGET_COLUMN", c.Training.TargetColumn)
	c.Training.Model = getEnv("MODEL", c.Training.Model)
	c.Training.Candidates = getEnvList("CANDIDATES", c.Training.Candidates)
	c.Training.ExcludeColumns = getEnvList("EXCLUDE_COLUMNS", c.Training.ExcludeColumns)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Server.HTTPPort = getEnv("HTTP_PORT", c.Server.HTTPPort)
	c.Server.GRPCPort = getEnv("GRPC_PORT", c.Server.GRPCPort)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)

	parsers := []struct {
		key   string
		parse func(string) error
	}{
		{"TEST_FRACTION", func(v string) (err error) {
			c.Training.TestFraction, err = strconv.ParseFloat(v, 64)
			return err
		}},
		{"THRESHOLD", func(v string) (err error) {
			c.Training.Threshold, err = strconv.ParseFloat(v, 64)
			return err
		}},
		{"RANDOM_SEED", func(v string) (err error) {
			c.Training.RandomSeed, err = strconv.ParseInt(v, 10, 64)
			return err
		}},
		{"CAP_OUTLIERS", func(v string) (err error) {
			c.Features.CapOutliers, err = strconv.ParseBool(v)
			return err
		}},
		{"REDIS_TTL", func(v string) (err error) {
			c.Redis.TTL, err = time.ParseDuration(v)
			return err
		}},
	}
	for _, p := range parsers {
		v, ok := os.LookupEnv(EnvPrefix + p.key)
		if !ok {
			continue
		}
		if err := p.parse(v); err != nil {
			return errors.Wrapf(err, "invalid %s%s", EnvPrefix, p.key)
		}
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	t := c.Training
	if t.TestFraction <= 0 || t.TestFraction >= 1 {
		return errors.Newf("test_fraction must be in (0, 1), got %v", t.TestFraction)
	}
	if t.Threshold < 0 || t.Threshold > 1 {
		return errors.Newf("threshold must be in [0, 1], got %v", t.Threshold)
	}
	if t.ArtifactPath == "" {
		return errors.New("artifact_path must not be empty")
	}
	if _, err := model.ParseKind(t.Model); err != nil {
		return err
	}
	for _, k := range t.Candidates {
		if _, err := model.ParseKind(k); err != nil {
			return errors.Wrap(err, "candidates")
		}
	}
	f := c.Features
	if f.LowerQuantile < 0 || f.UpperQuantile > 1 || f.LowerQuantile >= f.UpperQuantile {
		return errors.Newf("quantiles must satisfy 0 <= lower < upper <= 1, got %v and %v", f.LowerQuantile, f.UpperQuantile)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when brokers are set")
	}
	if c.Redis.TTL < 0 {
		return errors.New("redis.ttl must not be negative")
	}
	return nil
}

// CandidateKinds returns the parsed candidate list.
func (t TrainingConfig) CandidateKinds() []model.Kind {
	out := make([]model.Kind, 0, len(t.Candidates))
	for _, k := range t.Candidates {
		kind, _ := model.ParseKind(k)
		out = append(out, kind)
	}
	return out
}

// FeatureOptions converts the feature section for the builder.
func (c *Config) FeatureOptions() features.Options {
	opts := features.DefaultOptions()
	opts.CapOutliers = c.Features.CapOutliers
	opts.LowerQuantile = c.Features.LowerQuantile
	opts.UpperQuantile = c.Features.UpperQuantile
	return opts
}

// TrainerConfig converts the training section for the trainer.
func (c *Config) TrainerConfig() training.Config {
	kind, _ := model.ParseKind(c.Training.Model)
	return training.Config{
		TestFraction: c.Training.TestFraction,
		Seed:         c.Training.RandomSeed,
		ArtifactPath: c.Training.ArtifactPath,
		Model:        kind,
		LabelSource:  domain.LabelSourceTarget,
	}
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Server.HTTPPort)
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.Server.GRPCPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(EnvPrefix + key); exists {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(EnvPrefix + key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
