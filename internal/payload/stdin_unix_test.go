//go:build unix

package payload_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-cli/internal/payload"
)

func TestLoad_IdleOpenStdinIsNoInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	defer func() { _ = w.Close() }()

	errCh := make(chan error, 1)
	go func() {
		_, err := payload.Load(payload.Source{Stdin: r})
		errCh <- err
	}()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, payload.ErrNoInput)
	case <-time.After(2 * time.Second):
		_ = w.Close() // unblock the reader before failing
		t.Fatal("Load blocked on an idle stdin pipe")
	}
}

func TestLoad_DashWaitsForDataOnOpenStdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.WriteString(`{"inputText":"late","textMode":"generate","format":"presentation"}`)
		_ = w.Close()
	}()

	req, err := payload.Load(payload.Source{Path: "-", Stdin: r})

	require.NoError(t, err)
	assert.Equal(t, "late", req["inputText"])
}
