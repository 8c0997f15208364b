// Package sidecar persists completed generation results as JSON files so a
// result can be inspected later without calling the API.
package sidecar

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"gamma-cli/internal/domain"
	applog "gamma-cli/internal/log"
)

// Build assembles the sidecar record for a completed generation.
func Build(status domain.JobStatus, req domain.GenerationRequest, now time.Time) domain.ResultSidecar {
	sc := domain.ResultSidecar{
		GenerationID: status.Handle.String(),
		Status:       status.RawTag,
		GammaURL:     status.GammaURL,
		PDFURL:       status.PDFURL,
		PPTXURL:      status.PPTXURL,
		Credits:      status.Credits,
		Request:      req,
		Timestamp:    now.UTC().Format(time.RFC3339),
	}
	if json.Valid(status.Raw) {
		sc.Response = json.RawMessage(status.Raw)
	}
	return sc
}

// Path returns the sidecar location for a generation inside dir.
func Path(dir, generationID string) (string, error) {
	name := strings.TrimSpace(generationID)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("unsafe generation id %q for a file name", generationID)
	}
	return filepath.Join(dir, name+".json"), nil
}

// Write stores sc as <dir>/<generationId>.json.  The file is replaced
// atomically; a crash never leaves a truncated sidecar behind.
func Write(dir string, sc domain.ResultSidecar) (string, error) {
	logger := applog.WithComponent("sidecar")
	path, err := Path(dir, sc.GenerationID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create sidecar directory: %w", err)
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sidecar: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return "", fmt.Errorf("create pending sidecar file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending sidecar file")
		}
	}()
	if _, err := pendingFile.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("write sidecar data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("atomically replace sidecar file: %w", err)
	}
	logger.Debug().Str("path", path).Str(applog.FieldJobID, sc.GenerationID).Msg("sidecar written")
	return path, nil
}

// Read loads and decodes a sidecar file.
func Read(path string) (domain.ResultSidecar, error) {
	var sc domain.ResultSidecar
	// #nosec G304 -- the sidecar path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("reading sidecar: %w", err)
	}
	if err := json.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("parsing sidecar %s: %w", path, err)
	}
	if sc.GenerationID == "" {
		return sc, errors.New("parsing sidecar " + path + ": missing generation_id")
	}
	return sc, nil
}

// Pretty returns the file content re-indented, after checking it is JSON.
func Pretty(path string) ([]byte, error) {
	// #nosec G304 -- the sidecar path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sidecar: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return nil, fmt.Errorf("parsing sidecar %s: %w", path, err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
