package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gamma-cli/internal/domain"
	applog "gamma-cli/internal/log"
	"gamma-cli/internal/telemetry"
)

const (
	// DefaultPollInterval and DefaultPollTimeout match the upstream guidance
	// for presentation-sized generations.
	DefaultPollInterval = 10 * time.Second
	DefaultPollTimeout  = 300 * time.Second
)

// Observation is reported to PollOptions.Observer after every status fetch.
// Elapsed is measured before the fetch was issued.
type Observation struct {
	Handle  domain.JobHandle
	Attempt int
	Elapsed time.Duration
	Tag     domain.StatusTag
	RawTag  string
}

// PollOptions controls one poll session.
type PollOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	// OnSubmitted is called once SubmitAndAwait has a handle, before polling.
	OnSubmitted func(domain.JobHandle)
	// Observer receives progress after each poll.  It must not block for long;
	// it has no influence on the session outcome.
	Observer func(Observation)
}

// DefaultPollOptions returns a 10s interval with a 300s deadline.
func DefaultPollOptions() PollOptions {
	return PollOptions{Interval: DefaultPollInterval, Timeout: DefaultPollTimeout}
}

func (o PollOptions) validate() error {
	if o.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidPollOptions, o.Interval)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidPollOptions, o.Timeout)
	}
	return nil
}

// SubmitAndAwait creates a generation and polls it until it reaches a
// terminal state, the timeout passes or ctx is cancelled.  On success the
// completed snapshot is returned unchanged.  Failures are one of
// *JobFailedError, *TimeoutError, *UnknownStatusError, a wrapped ctx.Err(),
// or the client's own error returned as-is.
func (s *GenerationService) SubmitAndAwait(ctx context.Context, req domain.GenerationRequest, opts PollOptions) (domain.JobStatus, error) {
	if err := opts.validate(); err != nil {
		return domain.JobStatus{}, err
	}
	ctx = applog.ContextWithSessionID(ctx, uuid.NewString())
	logger := applog.WithContext(ctx, s.logger)

	logger.Debug().Msg("creating generation")
	handle, err := s.client.CreateGeneration(ctx, req)
	if err != nil {
		pollSessionsTotal.WithLabelValues(outcomeError).Inc()
		return domain.JobStatus{}, err
	}
	logger.Info().Str(applog.FieldJobID, handle.String()).Msg("generation created")
	if opts.OnSubmitted != nil {
		opts.OnSubmitted(handle)
	}
	return s.Await(ctx, handle, opts)
}

// Await polls an existing generation.  The elapsed-time check runs before
// every fetch, so a deadline crossed during a slow fetch or a wait is caught
// before another request is made.
func (s *GenerationService) Await(ctx context.Context, handle domain.JobHandle, opts PollOptions) (status domain.JobStatus, err error) {
	if err := opts.validate(); err != nil {
		return domain.JobStatus{}, err
	}
	if applog.SessionIDFromContext(ctx) == "" {
		ctx = applog.ContextWithSessionID(ctx, uuid.NewString())
	}
	ctx = applog.ContextWithJobID(ctx, handle.String())
	logger := applog.WithContext(ctx, s.logger)

	ctx, span := telemetry.Tracer("gamma-cli/service").Start(ctx, "gamma.poll")
	span.SetAttributes(
		attribute.String(telemetry.GenerationIDKey, handle.String()),
		attribute.Int64(telemetry.PollIntervalKey, opts.Interval.Milliseconds()),
		attribute.Int64(telemetry.PollTimeoutKey, opts.Timeout.Milliseconds()),
	)
	defer span.End()

	logger.Debug().
		Dur(applog.FieldInterval, opts.Interval).
		Dur(applog.FieldTimeout, opts.Timeout).
		Msg("polling generation")

	start := s.clock.Now()
	attempts := 0
	lastTag := ""
	outcome := outcomeError
	defer func() {
		pollSessionsTotal.WithLabelValues(outcome).Inc()
		pollSessionDuration.WithLabelValues(outcome).Observe(s.clock.Now().Sub(start).Seconds())
		span.SetAttributes(
			attribute.Int(telemetry.PollAttemptsKey, attempts),
			attribute.String(telemetry.GenerationStatusKey, lastTag),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		logger.Debug().Str("outcome", outcome).Int(applog.FieldAttempt, attempts).Msg("poll session finished")
	}()

	for {
		elapsed := s.clock.Now().Sub(start)
		if elapsed > opts.Timeout {
			outcome = outcomeTimedOut
			return domain.JobStatus{}, &TimeoutError{
				Handle:  handle,
				Timeout: opts.Timeout,
				Elapsed: elapsed,
				Polls:   attempts,
				LastTag: lastTag,
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			outcome = outcomeCancelled
			return domain.JobStatus{}, fmt.Errorf("awaiting generation %s: %w", handle, ctxErr)
		}

		attempts++
		current, fetchErr := s.client.GetGenerationStatus(ctx, handle)
		if fetchErr != nil {
			if errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded) {
				outcome = outcomeCancelled
			}
			return domain.JobStatus{}, fetchErr
		}
		lastTag = current.RawTag
		pollAttemptsTotal.WithLabelValues(current.Tag.String()).Inc()

		logger.Debug().
			Str(applog.FieldStatus, current.RawTag).
			Int(applog.FieldAttempt, attempts).
			Dur(applog.FieldElapsed, elapsed).
			Msg("polled generation status")
		if opts.Observer != nil {
			opts.Observer(Observation{
				Handle:  handle,
				Attempt: attempts,
				Elapsed: elapsed,
				Tag:     current.Tag,
				RawTag:  current.RawTag,
			})
		}

		switch current.Tag {
		case domain.StatusCompleted:
			outcome = outcomeCompleted
			return current, nil
		case domain.StatusFailed:
			outcome = outcomeFailed
			return domain.JobStatus{}, &JobFailedError{Handle: handle, Status: current}
		case domain.StatusPending:
			if waitErr := s.clock.Wait(ctx, opts.Interval); waitErr != nil {
				outcome = outcomeCancelled
				return domain.JobStatus{}, fmt.Errorf("awaiting generation %s: %w", handle, waitErr)
			}
		default:
			outcome = outcomeUnknownStatus
			return domain.JobStatus{}, &UnknownStatusError{Handle: handle, Tag: current.RawTag}
		}
	}
}
