package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const OpenAIAPIKeyEnv = "OPENAI_API_KEY"

type Config struct {
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIModel        string        `env:"OPENAI_MODEL"        envDefault:"gpt-4o-mini"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	SummaryTimeout     time.Duration `env:"SUMMARY_TIMEOUT"     envDefault:"120s"`
	SummaryConcurrency int           `env:"SUMMARY_CONCURRENCY" envDefault:"3"`
	MaxPromptChars     int           `env:"MAX_PROMPT_CHARS"    envDefault:"400000"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"       envDefault:"10s"`
	DetectLanguage     bool          `env:"DETECT_LANGUAGE"     envDefault:"true"`
	ListenAddr         string        `env:"LISTEN_ADDR"         envDefault:":8080"`
	TrustProxyHeaders  bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	UploadMaxBytes     int64         `env:"UPLOAD_MAX_BYTES"    envDefault:"52428800"`
	TempDir            string        `env:"TEMP_DIR"`
	RateLimitInterval  time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"5s"`
	TempSweepSpec      string        `env:"TEMP_SWEEP_SPEC"     envDefault:"0 * * * *"`
	TempMaxAge         time.Duration `env:"TEMP_MAX_AGE"        envDefault:"1h"`
	LogLevel           slog.Level    `env:"LOG_LEVEL"           envDefault:"INFO"`
}

// Load reads an optional dotenv file into the process environment and
// parses the result. Variables already set take precedence over the file.
func Load(dotenvPaths ...string) (Config, error) {
	if err := godotenv.Load(dotenvPaths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	return Parse()
}

func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}

	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.SummaryConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARY_CONCURRENCY must be positive (got %d)", c.SummaryConcurrency))
	}
	if c.SummaryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SUMMARY_TIMEOUT must be positive (got %s)", c.SummaryTimeout))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive (got %s)", c.FetchTimeout))
	}
	if c.MaxPromptChars < 0 {
		errs = append(errs, fmt.Errorf("MAX_PROMPT_CHARS must not be negative (got %d)", c.MaxPromptChars))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("UPLOAD_MAX_BYTES must be positive (got %d)", c.UploadMaxBytes))
	}
	if strings.TrimSpace(c.OpenAIModel) == "" {
		errs = append(errs, errors.New("OPENAI_MODEL must not be empty"))
	}

	return errors.Join(errs...)
}

// APIKey reads the credential at call time so that a key exported after
// startup is picked up. Falls back to the value parsed at load.
func (c Config) APIKey() string {
	if key := strings.TrimSpace(os.Getenv(OpenAIAPIKeyEnv)); key != "" {
		return key
	}

	return c.OpenAIAPIKey
}
