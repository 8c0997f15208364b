package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gamma-cli/internal/config"
	"gamma-cli/internal/domain"
	"gamma-cli/internal/payload"
	"gamma-cli/internal/service"
	"gamma-cli/internal/sidecar"
)

const generateUsage = `Usage:
  # From stdin (JSON payload)
  gamma generate < payload.json

  # From a file
  gamma generate --file payload.json

  # From heredoc
  gamma generate << 'EOF'
  {
      "inputText": "Your content",
      "textMode": "generate",
      "format": "presentation"
  }
  EOF

  # Run built-in example
  gamma generate --example
`

type generateOptions struct {
	file     string
	example  bool
	interval string
	timeout  string
	quiet    bool
	saveDir  string
}

func (a *app) newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a generation and wait for it to complete",
		Long: "Create a generation from a JSON payload and poll until it completes, fails or times out.\n" +
			"The payload is read from --file, from piped standard input, or is the built-in example.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", `Read the JSON payload from this file ("-" for stdin)`)
	f.BoolVarP(&opts.example, "example", "e", false, "Run the built-in example payload")
	f.StringVar(&opts.interval, "interval", "", "Time between status checks, e.g. 10s (default from config)")
	f.StringVar(&opts.timeout, "timeout", "", "Maximum time to wait, e.g. 5m (default from config)")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "Only print the final result")
	f.StringVar(&opts.saveDir, "save-dir", "", "Write the result to <dir>/<generationId>.json")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	req, err := payload.Load(payload.Source{Path: opts.file, Example: opts.example, Stdin: a.stdin})
	if errors.Is(err, payload.ErrNoInput) {
		return &inputError{err: payload.ErrNoInput, usage: generateUsage}
	}
	if err != nil {
		return &inputError{err: err}
	}
	if opts.example && !opts.quiet {
		fmt.Fprint(a.stdout, "Running built-in example...\n\n")
	}

	svc, err := a.newService()
	if err != nil {
		return err
	}
	if err := payload.Validate(req); err != nil {
		return &inputError{err: err}
	}
	pollOpts, err := a.pollOptions(cmd, opts.interval, opts.timeout)
	if err != nil {
		return err
	}
	if !opts.quiet {
		pollOpts.OnSubmitted = func(h domain.JobHandle) {
			fmt.Fprintf(a.stdout, "Generation ID: %s\n", h)
			fmt.Fprintln(a.stdout, "Polling for completion...")
		}
		pollOpts.Observer = a.printProgress
		fmt.Fprint(a.stdout, "Starting generation...\n\n")
		fmt.Fprintln(a.stdout, "Creating generation...")
	}

	status, err := svc.SubmitAndAwait(cmd.Context(), req, pollOpts)
	if err != nil {
		return err
	}
	renderResult(a.stdout, status)

	if opts.saveDir != "" {
		path, err := sidecar.Write(opts.saveDir, sidecar.Build(status, req, time.Now()))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "\nSaved result: %s\n", path)
	}
	return nil
}

// pollOptions takes config defaults and applies --interval/--timeout when
// they were given.
func (a *app) pollOptions(cmd *cobra.Command, interval, timeout string) (service.PollOptions, error) {
	opts := service.PollOptions{Interval: a.cfg.PollInterval, Timeout: a.cfg.PollTimeout}
	if cmd.Flags().Changed("interval") {
		d, err := config.ParseDuration(interval)
		if err != nil {
			return opts, &inputError{err: fmt.Errorf("--interval: %w", err)}
		}
		opts.Interval = d
	}
	if cmd.Flags().Changed("timeout") {
		d, err := config.ParseDuration(timeout)
		if err != nil {
			return opts, &inputError{err: fmt.Errorf("--timeout: %w", err)}
		}
		opts.Timeout = d
	}
	if err := config.CheckPollWindow(opts.Interval, opts.Timeout); err != nil {
		return opts, &inputError{err: fmt.Errorf("--interval/--timeout: %w", err)}
	}
	return opts, nil
}

func (a *app) printProgress(o service.Observation) {
	fmt.Fprintln(a.stdout, progressLine(o))
}
