package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamma-cli/internal/domain"
)

type stubClient struct {
	tags []string
	i    int
}

func (s *stubClient) CreateGeneration(context.Context, domain.GenerationRequest) (domain.JobHandle, error) {
	return "gen-metrics", nil
}

func (s *stubClient) GetGenerationStatus(context.Context, domain.JobHandle) (domain.JobStatus, error) {
	tag := s.tags[s.i]
	if s.i < len(s.tags)-1 {
		s.i++
	}
	return domain.JobStatus{Handle: "gen-metrics", Tag: domain.ParseStatusTag(tag), RawTag: tag}, nil
}

func (s *stubClient) ListResources(context.Context, domain.ResourceKind) ([]domain.ResourceRecord, error) {
	return nil, nil
}

type steppingClock struct{ now time.Time }

func (c *steppingClock) Now() time.Time { return c.now }

func (c *steppingClock) Wait(_ context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func TestAwait_RecordsOutcomeAndAttempts(t *testing.T) {
	completedBefore := testutil.ToFloat64(pollSessionsTotal.WithLabelValues(outcomeCompleted))
	pendingBefore := testutil.ToFloat64(pollAttemptsTotal.WithLabelValues("pending"))

	svc := NewGenerationService(&stubClient{tags: []string{"pending", "pending", "completed"}},
		WithClock(&steppingClock{now: time.Unix(0, 0)}))
	_, err := svc.Await(context.Background(), "gen-metrics", PollOptions{Interval: time.Second, Timeout: time.Minute})
	require.NoError(t, err)

	assert.Equal(t, completedBefore+1, testutil.ToFloat64(pollSessionsTotal.WithLabelValues(outcomeCompleted)))
	assert.Equal(t, pendingBefore+2, testutil.ToFloat64(pollAttemptsTotal.WithLabelValues("pending")))
}

func TestAwait_RecordsTimedOutOutcome(t *testing.T) {
	before := testutil.ToFloat64(pollSessionsTotal.WithLabelValues(outcomeTimedOut))

	svc := NewGenerationService(&stubClient{tags: []string{"pending"}},
		WithClock(&steppingClock{now: time.Unix(0, 0)}))
	_, err := svc.Await(context.Background(), "gen-metrics", PollOptions{Interval: time.Second, Timeout: 3 * time.Second})
	require.ErrorIs(t, err, ErrTimedOut)

	assert.Equal(t, before+1, testutil.ToFloat64(pollSessionsTotal.WithLabelValues(outcomeTimedOut)))
}
