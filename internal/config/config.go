// Package config loads the judge configuration from a TOML file, a .env
// file and CODECHECKER_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/seekshiva/codechecker/internal/xdg"
)

const envPrefix = "CODECHECKER_"

type Config struct {
	ScratchDir  string `toml:"scratch_dir"`
	HelperPath  string `toml:"helper_path"`
	JailRoot    string `toml:"jail_root"`
	HelperDebug int    `toml:"helper_debug"`

	// OutputLimitMiB applies to problems that do not set their own.
	OutputLimitMiB int `toml:"output_limit_mib"`

	// EvaluatorTimeout bounds a custom evaluator, e.g. "10s".
	EvaluatorTimeout string `toml:"evaluator_timeout"`

	Workers  int    `toml:"workers"`
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	Postgres PostgresConfig `toml:"postgres"`
	NATS     NATSConfig     `toml:"nats"`
	SQS      SQSConfig      `toml:"sqs"`
}

type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
	// ResultsPrefix is followed by the eval uuid to form the event subject.
	ResultsPrefix string `toml:"results_prefix"`
}

type SQSConfig struct {
	Region          string `toml:"region"`
	QueueURL        string `toml:"queue_url"`
	ResultsQueueURL string `toml:"results_queue_url"`
}

func Default() *Config {
	return &Config{
		ScratchDir:       xdg.NewDirs().ScratchDir(),
		HelperPath:       "/usr/local/bin/setuid_helper",
		JailRoot:         "/var/lib/codechecker/jail",
		OutputLimitMiB:   16,
		EvaluatorTimeout: "10s",
		Workers:          1,
		LogLevel:         "info",
		NATS: NATSConfig{
			Subject:       "codechecker.submissions",
			ResultsPrefix: "codechecker.results.",
		},
		SQS: SQSConfig{
			Region: "eu-central-1",
		},
	}
}

// Load reads path, or the XDG config file when path is empty. A missing
// XDG config file or .env file leaves the defaults in place.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = xdg.NewDirs().ConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SCRATCH_DIR":           &c.ScratchDir,
		"HELPER_PATH":           &c.HelperPath,
		"JAIL_ROOT":             &c.JailRoot,
		"EVALUATOR_TIMEOUT":     &c.EvaluatorTimeout,
		"LOG_LEVEL":             &c.LogLevel,
		"LOG_FILE":              &c.LogFile,
		"POSTGRES_DSN":          &c.Postgres.DSN,
		"NATS_URL":              &c.NATS.URL,
		"NATS_SUBJECT":          &c.NATS.Subject,
		"NATS_RESULTS_PREFIX":   &c.NATS.ResultsPrefix,
		"SQS_REGION":            &c.SQS.Region,
		"SQS_QUEUE_URL":         &c.SQS.QueueURL,
		"SQS_RESULTS_QUEUE_URL": &c.SQS.ResultsQueueURL,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HELPER_DEBUG":     &c.HelperDebug,
		"OUTPUT_LIMIT_MIB": &c.OutputLimitMiB,
		"WORKERS":          &c.Workers,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	if c.Postgres.DSN == "" && os.Getenv("DB_HOST") != "" {
		c.Postgres.DSN = fmt.Sprintf(
			`host=%s port=%s user=%s password=%s dbname=%s sslmode=%s`,
			os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
			os.Getenv("DB_PASS"), os.Getenv("DB_NAME"), os.Getenv("DB_SSLMODE"))
	}
	return nil
}

func (c *Config) EvaluatorTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.EvaluatorTimeout)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error
	if c.ScratchDir == "" {
		errs = append(errs, errors.New("scratch_dir is required"))
	}
	if c.HelperPath == "" {
		errs = append(errs, errors.New("helper_path is required"))
	}
	if c.JailRoot == "" {
		errs = append(errs, errors.New("jail_root is required"))
	}
	if c.OutputLimitMiB <= 0 {
		errs = append(errs, fmt.Errorf("output_limit_mib must be positive, got %d", c.OutputLimitMiB))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if c.HelperDebug < 0 {
		errs = append(errs, fmt.Errorf("helper_debug must not be negative, got %d", c.HelperDebug))
	}
	if _, err := time.ParseDuration(c.EvaluatorTimeout); err != nil {
		errs = append(errs, fmt.Errorf("invalid evaluator_timeout: %w", err))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("invalid log_level: %w", err))
	}
	return errors.Join(errs...)
}
