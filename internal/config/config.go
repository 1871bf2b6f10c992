// Package config loads the SmarTest configuration: defaults, then an
// optional YAML file, then SMARTEST_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/smartest/internal/llm"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Session    SessionConfig    `yaml:"session"`
	Theory     TheoryConfig     `yaml:"theory"`
	Similarity SimilarityConfig `yaml:"similarity"`
	LLM        llm.Config       `yaml:"llm"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	AllowOrigins []string      `yaml:"allow_origins"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

// SessionConfig selects where pending problems are kept between turns.
type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	DSN           string        `yaml:"dsn"`
	RedisAddr     string        `yaml:"redis_addr"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database"`
	TTL           time.Duration `yaml:"ttl"`
}

// TheoryConfig points at a topics file. Empty means the embedded dataset.
type TheoryConfig struct {
	File string `yaml:"file"`
}

type SimilarityConfig struct {
	Backend string        `yaml:"backend"`
	Timeout time.Duration `yaml:"timeout"`

	// EmbeddingModel overrides the provider's embedding model for the
	// embedding backend.
	EmbeddingModel string `yaml:"embedding_model"`
}

type TelegramConfig struct {
	Token       string        `yaml:"token"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

const (
	SessionMemory   = "memory"
	SessionSQLite   = "sqlite"
	SessionPostgres = "postgres"
	SessionRedis    = "redis"
	SessionMongo    = "mongo"

	SimilarityNone      = "none"
	SimilarityEmbedding = "embedding"
	SimilarityJudge     = "judge"
)

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8000",
			AllowOrigins: []string{"*"},
			ReadTimeout:  15 * time.Second,
		},
		Log: LogConfig{Mode: "development"},
		Session: SessionConfig{
			Backend:       SessionMemory,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "smartest",
			TTL:           24 * time.Hour,
		},
		Similarity: SimilarityConfig{
			Backend: SimilarityNone,
			Timeout: 2 * time.Second,
		},
		LLM:      llm.DefaultConfig(),
		Telegram: TelegramConfig{PollTimeout: 30 * time.Second},
	}
}

// Load builds the effective config. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, key string) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str(&cfg.Server.Addr, "SMARTEST_ADDR")
	if v := strings.TrimSpace(os.Getenv("SMARTEST_ALLOW_ORIGINS")); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Server.Addr = ":" + v
		}
	}
	str(&cfg.Log.Mode, "SMARTEST_LOG_MODE")
	str(&cfg.Session.Backend, "SMARTEST_SESSION_BACKEND")
	str(&cfg.Session.DSN, "SMARTEST_SESSION_DSN")
	str(&cfg.Session.RedisAddr, "SMARTEST_REDIS_ADDR")
	str(&cfg.Session.MongoURI, "SMARTEST_MONGO_URI")
	str(&cfg.Session.MongoDatabase, "SMARTEST_MONGO_DATABASE")
	str(&cfg.Theory.File, "SMARTEST_THEORY_FILE")
	str(&cfg.Similarity.Backend, "SMARTEST_SIMILARITY_BACKEND")
	str(&cfg.Similarity.EmbeddingModel, "SMARTEST_EMBEDDING_MODEL")
	str(&cfg.Telegram.Token, "SMARTEST_TELEGRAM_TOKEN")

	for key, dst := range map[string]*time.Duration{
		"SMARTEST_READ_TIMEOUT":       &cfg.Server.ReadTimeout,
		"SMARTEST_SESSION_TTL":        &cfg.Session.TTL,
		"SMARTEST_SIMILARITY_TIMEOUT": &cfg.Similarity.Timeout,
		"SMARTEST_TELEGRAM_POLL":      &cfg.Telegram.PollTimeout,
	} {
		if err := dur(dst, key); err != nil {
			return err
		}
	}

	llm.ApplyEnv(&cfg.LLM)
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks enums and the fields each selected backend needs.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	switch c.Session.Backend {
	case SessionMemory:
	case SessionSQLite:
	case SessionPostgres:
		if c.Session.DSN == "" {
			errs = append(errs, errors.New("session.dsn is required for the postgres backend"))
		}
	case SessionRedis:
		if c.Session.RedisAddr == "" {
			errs = append(errs, errors.New("session.redis_addr is required for the redis backend"))
		}
	case SessionMongo:
		if c.Session.MongoURI == "" || c.Session.MongoDatabase == "" {
			errs = append(errs, errors.New("session.mongo_uri and session.mongo_database are required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, errors.New("session.ttl must not be negative"))
	}

	switch c.Similarity.Backend {
	case SimilarityNone:
	case SimilarityEmbedding, SimilarityJudge:
		if err := c.LLM.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("similarity backend %q: %w", c.Similarity.Backend, err))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown similarity backend %q", c.Similarity.Backend))
	}
	if c.Similarity.Timeout <= 0 {
		errs = append(errs, errors.New("similarity.timeout must be positive"))
	}

	return errors.Join(errs...)
}
