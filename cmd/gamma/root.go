package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"gamma-cli/internal/config"
	applog "gamma-cli/internal/log"
	"gamma-cli/internal/metrics"
	"gamma-cli/internal/provider"
	"gamma-cli/internal/service"
	"gamma-cli/internal/telemetry"
)

// app carries the streams and resolved configuration shared by every
// subcommand of one invocation.
type app struct {
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer

	flags struct {
		apiKey      string
		configPath  string
		baseURL     string
		logLevel    string
		metricsFile string
	}

	cfg       config.Config
	logger    zerolog.Logger
	telemetry *telemetry.Provider
}

// inputError is a problem with what the user supplied.  It is printed as a
// plain "Error:" line, optionally followed by usage text.
type inputError struct {
	err   error
	usage string
}

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gamma",
		Short:         "Create and track Gamma generations",
		Long:          "gamma submits generation requests to the Gamma Generate API, polls them until they finish and lists workspace themes and folders.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.apiKey, "api-key", "", "Gamma API key (default $GAMMA_API_KEY)")
	pf.StringVar(&a.flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&a.flags.baseURL, "base-url", "", "API base URL (default "+config.DefaultBaseURL+")")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this .prom file on exit")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newStatusCmd(),
		a.newListCmd(),
		a.newResourceCmd("themes"),
		a.newResourceCmd("folders"),
		a.newInspectCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup resolves configuration and installs logging and tracing.
func (a *app) setup(ctx context.Context) error {
	a.configureLogging(a.flags.logLevel)
	cfg, err := config.Load(config.LoadOptions{
		APIKey:      a.flags.apiKey,
		BaseURL:     a.flags.baseURL,
		LogLevel:    a.flags.logLevel,
		MetricsFile: a.flags.metricsFile,
		ConfigPath:  a.flags.configPath,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configureLogging(cfg.LogLevel)
	a.logger = applog.WithComponent("cli")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "gamma-cli",
		ServiceVersion: version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
	})
	if err != nil {
		return fmt.Errorf("initialise tracing: %w", err)
	}
	a.telemetry = tp
	return nil
}

func (a *app) configureLogging(level string) {
	logCfg := applog.Config{Level: level}
	if a.stderr != io.Writer(os.Stderr) {
		logCfg.Output = a.stderr
	}
	applog.Configure(logCfg)
}

// newService builds the API client and service from the resolved config.
func (a *app) newService() (*service.GenerationService, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client := provider.NewAPIClientWithOptions(a.cfg.APIKey, provider.Options{
		BaseURL:   a.cfg.BaseURL,
		Timeout:   a.cfg.RequestTimeout,
		RateLimit: rate.Limit(a.cfg.RateLimit),
		UserAgent: "gamma-cli/" + version,
	})
	return service.NewGenerationService(client), nil
}

// finish flushes spans and writes the metrics textfile, if configured.
func (a *app) finish() {
	if err := a.telemetry.Shutdown(context.Background()); err != nil {
		a.logger.Warn().Err(err).Msg("tracing shutdown failed")
	}
	if a.cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsFile, nil); err != nil {
			a.logger.Warn().Err(err).Str("path", a.cfg.MetricsFile).Msg("writing metrics file failed")
		}
	}
}

func (a *app) reportError(err error) {
	var (
		inErr      *inputError
		cfgErr     *config.Error
		reqErr     *provider.RequestError
		timeoutErr *service.TimeoutError
	)
	switch {
	case errors.As(err, &inErr):
		fmt.Fprintf(a.stderr, "Error: %v\n", inErr.err)
		if inErr.usage != "" {
			fmt.Fprintf(a.stderr, "\n%s", inErr.usage)
		}
	case errors.As(err, &cfgErr):
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	case errors.As(err, &reqErr):
		fmt.Fprintf(a.stderr, "\n❌ API Error: %v\n", err)
		fmt.Fprintf(a.stderr, "Response: %s\n", reqErr.Body)
	case errors.As(err, &timeoutErr):
		fmt.Fprintf(a.stderr, "\n❌ Error: %v\n", err)
		fmt.Fprintf(a.stderr, "The generation may still finish; check it with: gamma status %s --wait\n", timeoutErr.Handle)
	default:
		fmt.Fprintf(a.stderr, "\n❌ Error: %v\n", err)
	}
}
