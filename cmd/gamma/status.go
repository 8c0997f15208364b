package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gamma-cli/internal/domain"
	"gamma-cli/internal/service"
)

func (a *app) newStatusCmd() *cobra.Command {
	var (
		wait     bool
		raw      bool
		interval string
		timeout  string
	)
	cmd := &cobra.Command{
		Use:   "status GENERATION_ID",
		Short: "Check the status of an existing generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			handle := domain.JobHandle(args[0])

			var status domain.JobStatus
			if wait {
				opts, err := a.pollOptions(cmd, interval, timeout)
				if err != nil {
					return err
				}
				opts.Observer = a.printProgress
				status, err = svc.Await(cmd.Context(), handle, opts)
				if err != nil {
					return err
				}
			} else {
				status, err = svc.Status(cmd.Context(), handle)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Status: %s\n", displayTag(status.RawTag))
			}

			if raw {
				printJSON(a.stdout, status.Raw)
			}
			switch status.Tag {
			case domain.StatusCompleted:
				renderResult(a.stdout, status)
			case domain.StatusFailed:
				return &service.JobFailedError{Handle: handle, Status: status}
			case domain.StatusUnrecognized:
				return &service.UnknownStatusError{Handle: handle, Tag: status.RawTag}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&wait, "wait", "w", false, "Poll until the generation completes, fails or times out")
	f.BoolVar(&raw, "raw", false, "Print the full API response")
	f.StringVar(&interval, "interval", "", "Time between status checks with --wait (default from config)")
	f.StringVar(&timeout, "timeout", "", "Maximum time to wait with --wait (default from config)")
	return cmd
}

// printJSON prints data indented, or verbatim when it is not valid JSON.
func printJSON(w io.Writer, data []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, out.String())
}
