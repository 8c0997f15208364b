// Package payload reads generation requests from files, standard input or
// the built-in example, and checks the fields the API requires.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"gamma-cli/internal/domain"
)

// ErrNoInput is returned when neither a file, the example nor piped stdin
// supplied a request.
var ErrNoInput = errors.New("no input provided")

// MissingFieldsError lists required keys absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// Source selects where Load reads from.  Path "-" forces stdin.
type Source struct {
	Path    string
	Example bool
	Stdin   *os.File
}

// Load resolves a request from the first usable source: the example, an
// explicit path, then stdin when it is not a terminal and already has data
// or has been closed. A pipe that is open but idle counts as no input; use
// Path "-" to wait for a slow producer.
func Load(src Source) (domain.GenerationRequest, error) {
	if src.Example {
		return Example(), nil
	}
	stdin := src.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	switch {
	case src.Path == "-":
		return Decode(stdin, "stdin")
	case src.Path != "":
		// #nosec G304 -- the payload path is supplied by the operator
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("opening payload: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode(f, src.Path)
	case HasPipedInput(stdin) && inputReady(stdin):
		return Decode(stdin, "stdin")
	default:
		return nil, ErrNoInput
	}
}

// HasPipedInput reports whether f is something other than an interactive
// terminal.
func HasPipedInput(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// Decode parses a JSON object.  name labels errors.
func Decode(r io.Reader, name string) (domain.GenerationRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("invalid JSON from %s: %w", name, ErrNoInput)
	}
	var req domain.GenerationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON from %s: %w", name, err)
	}
	if req == nil {
		return nil, fmt.Errorf("invalid JSON from %s: expected an object", name)
	}
	return req, nil
}

// Validate checks that every required field is present.
func Validate(req domain.GenerationRequest) error {
	if missing := req.MissingFields(); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// Example returns the built-in sample presentation request.
func Example() domain.GenerationRequest {
	return domain.GenerationRequest{
		"inputText": "The future of renewable energy: solar, wind, and battery storage",
		"textMode":  "generate",
		"format":    "presentation",
		"numCards":  10,
		"textOptions": map[string]any{
			"amount":   "detailed",
			"tone":     "professional, optimistic",
			"audience": "business leaders and investors",
		},
		"imageOptions": map[string]any{
			"source": "aiGenerated",
			"style":  "photorealistic, modern",
		},
	}
}
