package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gamma-cli/internal/domain"
	"gamma-cli/internal/service"
)

func TestProgressLine_TruncatesElapsedSeconds(t *testing.T) {
	got := progressLine(service.Observation{RawTag: "pending", Elapsed: 20*time.Second + 900*time.Millisecond})
	assert.Equal(t, "Status: pending (elapsed: 20s)", got)
}

func TestProgressLine_MissingTag(t *testing.T) {
	assert.Equal(t, "Status: <missing> (elapsed: 0s)", progressLine(service.Observation{}))
}

func TestRenderResult_CreditsNotAvailable(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, domain.JobStatus{GammaURL: "https://gamma.app/docs/x", PPTXURL: "https://cdn.gamma.app/x.pptx"})

	want := "\n✅ Generation complete!\n" +
		"View in Gamma: https://gamma.app/docs/x\n" +
		"PPTX: https://cdn.gamma.app/x.pptx\n" +
		"\n" +
		"Credits used: N/A\n" +
		"Credits remaining: N/A\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderResult_FractionalCredits(t *testing.T) {
	used := 2.5
	var buf bytes.Buffer
	renderResult(&buf, domain.JobStatus{Credits: domain.Credits{Deducted: &used}})
	assert.Contains(t, buf.String(), "Credits used: 2.5\n")
}

func TestRenderResources_EmptyFolders(t *testing.T) {
	var buf bytes.Buffer
	renderResources(&buf, domain.ResourceFolders, nil)

	want := "\n📁 Available Folders\n" + rule + "\n" + rule + "\nTotal: 0 folders\n\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderResources_DefaultsForMissingNameAndID(t *testing.T) {
	var buf bytes.Buffer
	renderResources(&buf, domain.ResourceThemes, []domain.ResourceRecord{{}})

	assert.Contains(t, buf.String(), "• Unnamed (ID: N/A)\n")
	assert.NotContains(t, buf.String(), "Colors:")
}
