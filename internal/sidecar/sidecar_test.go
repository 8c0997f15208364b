package sidecar_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-cli/internal/domain"
	"gamma-cli/internal/sidecar"
)

func completedStatus() domain.JobStatus {
	deducted, remaining := 42.0, 958.0
	return domain.JobStatus{
		Handle:   "gen-abc",
		Tag:      domain.StatusCompleted,
		RawTag:   "completed",
		GammaURL: "https://gamma.app/docs/abc",
		PDFURL:   "https://cdn.gamma.app/abc.pdf",
		Credits:  domain.Credits{Deducted: &deducted, Remaining: &remaining},
		Raw:      []byte(`{"generationId":"gen-abc","status":"completed"}`),
	}
}

func TestWrite_WritesExpectedJSON(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sc := sidecar.Build(completedStatus(), domain.GenerationRequest{"inputText": "a lighthouse at dusk"}, now)

	path, err := sidecar.Write(dir, sc)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gen-abc.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "gen-abc", got["generation_id"])
	assert.Equal(t, "https://gamma.app/docs/abc", got["gamma_url"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got["timestamp"])
	assert.NotContains(t, got, "pptx_url")
	credits, ok := got["credits"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 42.0, credits["deducted"], 0)
	response, ok := got["response"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", response["status"])
}

func TestWrite_CreatesDirectoryAndReplacesExisting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "nested")
	sc := sidecar.Build(completedStatus(), nil, time.Now())

	_, err := sidecar.Write(dir, sc)
	require.NoError(t, err)

	sc.GammaURL = "https://gamma.app/docs/updated"
	path, err := sidecar.Write(dir, sc)
	require.NoError(t, err)

	got, err := sidecar.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "https://gamma.app/docs/updated", got.GammaURL)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWrite_RejectsUnsafeGenerationID(t *testing.T) {
	for _, id := range []string{"", "../escape", "a/b", ".."} {
		_, err := sidecar.Write(t.TempDir(), domain.ResultSidecar{GenerationID: id})
		assert.Error(t, err, "id %q", id)
	}
}

func TestRead_RoundTripsCredits(t *testing.T) {
	path, err := sidecar.Write(t.TempDir(), sidecar.Build(completedStatus(), nil, time.Now()))
	require.NoError(t, err)

	got, err := sidecar.Read(path)

	require.NoError(t, err)
	require.NotNil(t, got.Credits.Remaining)
	assert.InDelta(t, 958.0, *got.Credits.Remaining, 0)
}

func TestRead_RejectsFileWithoutGenerationID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"prompt":"hello"}`), 0o600))

	_, err := sidecar.Read(path)
	assert.Error(t, err)
}

func TestPretty_IndentsSidecarJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen-test.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"generation_id":"gen-test","status":"completed"}`), 0o600))

	out, err := sidecar.Pretty(path)

	require.NoError(t, err)
	assert.Contains(t, string(out), `"generation_id": "gen-test"`)
}

func TestPretty_ReturnsErrorForInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte(`not-json`), 0o600))

	_, err := sidecar.Pretty(path)
	assert.Error(t, err)
}
