package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	applog "gamma-cli/internal/log"
)

const (
	sourceDefault = "default"
	sourceFile    = "file"
	sourceDotenv  = "dotenv"
	sourceEnv     = "environment"
	sourceFlag    = "flag"
)

// LoadOptions controls where Load looks for settings.  Explicit values
// (usually flags) win over everything else.
type LoadOptions struct {
	APIKey      string
	BaseURL     string
	LogLevel    string
	MetricsFile string

	// ConfigPath is an optional YAML file.  A missing file is an error when
	// set explicitly.
	ConfigPath string
	// EnvFiles are read with godotenv without touching the process
	// environment.  Nil means ".env"; missing files are skipped.
	EnvFiles []string
	// Lookup replaces os.LookupEnv, mainly for tests.
	Lookup func(string) (string, bool)
}

// FileConfig is the YAML file schema.
type FileConfig struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	PollInterval   string        `yaml:"poll_interval"`
	PollTimeout    string        `yaml:"poll_timeout"`
	RequestTimeout string        `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"`
	LogLevel       string        `yaml:"log_level"`
	MetricsFile    string        `yaml:"metrics_file"`
	Tracing        TracingConfig `yaml:"tracing"`
}

// TracingConfig is the tracing section of the YAML file.
type TracingConfig struct {
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// Load resolves the configuration.  Precedence, highest first: explicit
// options, process environment, .env files, YAML file, defaults.  The result
// is validated but an API key is not required; see Config.RequireAPIKey.
func Load(opts LoadOptions) (Config, error) {
	logger := applog.WithComponent("config")
	cfg := Defaults()
	setSource := func(key, source string) { cfg.Sources[key] = source }
	for _, key := range []string{EnvAPIKey, EnvBaseURL, EnvPollInterval, EnvPollTimeout, EnvRequestTimeout, EnvRateLimit, EnvLogLevel} {
		setSource(key, sourceDefault)
	}

	if opts.ConfigPath != "" {
		fileCfg, err := loadFile(opts.ConfigPath)
		if err != nil {
			return Config{}, &Error{Err: err}
		}
		if err := applyFile(&cfg, fileCfg, setSource); err != nil {
			return Config{}, err
		}
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return Config{}, &Error{Err: err}
	}
	lookupEnv := opts.Lookup
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	lookup := func(key string) (string, string, bool) {
		if v, ok := lookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), sourceEnv, true
		}
		if v, ok := dotenv[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), sourceDotenv, true
		}
		return "", "", false
	}
	if err := applyEnv(&cfg, lookup, setSource); err != nil {
		return Config{}, err
	}

	applyExplicit(&cfg, opts, setSource)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logger.Debug().
		Str("api_key", cfg.MaskedAPIKey()).
		Str("base_url", cfg.BaseURL).
		Dur("poll_interval", cfg.PollInterval).
		Dur("poll_timeout", cfg.PollTimeout).
		Interface("sources", cfg.Sources).
		Msg("configuration resolved")
	return cfg, nil
}

func loadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- the config path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnknownConfigField, path, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file %s contains multiple documents or trailing content", path)
	}
	return &fileCfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if files == nil {
		files = []string{".env"}
	}
	merged := map[string]string{}
	// Earlier files win, matching godotenv.Load.
	for i := len(files) - 1; i >= 0; i-- {
		values, err := godotenv.Read(files[i])
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", files[i], err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}
	return merged, nil
}

func applyFile(cfg *Config, f *FileConfig, setSource func(key, source string)) error {
	if f.APIKey != "" {
		cfg.APIKey = f.APIKey
		setSource(EnvAPIKey, sourceFile)
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
		setSource(EnvBaseURL, sourceFile)
	}
	for _, d := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{EnvPollInterval, f.PollInterval, &cfg.PollInterval},
		{EnvPollTimeout, f.PollTimeout, &cfg.PollTimeout},
		{EnvRequestTimeout, f.RequestTimeout, &cfg.RequestTimeout},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := ParseDuration(d.raw)
		if err != nil {
			return &Error{Key: d.key, Err: err}
		}
		*d.dst = parsed
		setSource(d.key, sourceFile)
	}
	if f.RateLimit != 0 {
		cfg.RateLimit = f.RateLimit
		setSource(EnvRateLimit, sourceFile)
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
		setSource(EnvLogLevel, sourceFile)
	}
	if f.MetricsFile != "" {
		cfg.MetricsFile = f.MetricsFile
	}
	if f.Tracing.Exporter != "" {
		cfg.TracingExporter = f.Tracing.Exporter
	}
	if f.Tracing.Endpoint != "" {
		cfg.TracingEndpoint = f.Tracing.Endpoint
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, string, bool), setSource func(key, source string)) error {
	if v, src, ok := lookup(EnvAPIKey); ok {
		cfg.APIKey = v
		setSource(EnvAPIKey, src)
	}
	if v, src, ok := lookup(EnvBaseURL); ok {
		cfg.BaseURL = v
		setSource(EnvBaseURL, src)
	}
	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{EnvPollInterval, &cfg.PollInterval},
		{EnvPollTimeout, &cfg.PollTimeout},
		{EnvRequestTimeout, &cfg.RequestTimeout},
	} {
		v, src, ok := lookup(d.key)
		if !ok {
			continue
		}
		parsed, err := ParseDuration(v)
		if err != nil {
			return &Error{Key: d.key, Err: err}
		}
		*d.dst = parsed
		setSource(d.key, src)
	}
	if v, src, ok := lookup(EnvRateLimit); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &Error{Key: EnvRateLimit, Err: fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)}
		}
		cfg.RateLimit = parsed
		setSource(EnvRateLimit, src)
	}
	if v, src, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
		setSource(EnvLogLevel, src)
	} else if v, src, ok := lookup(EnvLogLevelFallback); ok {
		cfg.LogLevel = v
		setSource(EnvLogLevel, src)
	}
	if v, _, ok := lookup(EnvTracingExporter); ok {
		cfg.TracingExporter = v
	}
	if v, _, ok := lookup(EnvTracingEndpoint); ok {
		cfg.TracingEndpoint = v
	}
	if v, _, ok := lookup(EnvMetricsFile); ok {
		cfg.MetricsFile = v
	}
	return nil
}

func applyExplicit(cfg *Config, opts LoadOptions, setSource func(key, source string)) {
	if v := strings.TrimSpace(opts.APIKey); v != "" {
		cfg.APIKey = v
		setSource(EnvAPIKey, sourceFlag)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
		setSource(EnvBaseURL, sourceFlag)
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = v
		setSource(EnvLogLevel, sourceFlag)
	}
	if v := strings.TrimSpace(opts.MetricsFile); v != "" {
		cfg.MetricsFile = v
	}
}

// ParseDuration accepts Go duration syntax ("10s", "2m") or a bare number of
// seconds ("10", "0.5").
func ParseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, raw)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
