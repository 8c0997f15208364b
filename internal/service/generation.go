package service

import (
	"context"

	"github.com/rs/zerolog"

	"gamma-cli/internal/domain"
	applog "gamma-cli/internal/log"
	"gamma-cli/internal/ports"
)

// GenerationService provides a clean application layer for starting and
// monitoring generations.  It depends on a GammaClient port which abstracts
// the underlying API.  A single service may run many poll sessions
// concurrently; sessions share no mutable state.
type GenerationService struct {
	client ports.GammaClient
	clock  Clock
	logger zerolog.Logger
}

// Option customises a GenerationService.
type Option func(*GenerationService)

// WithClock replaces the wall clock used by poll sessions.
func WithClock(c Clock) Option {
	return func(s *GenerationService) { s.clock = c }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *GenerationService) { s.logger = l }
}

// NewGenerationService constructs a new GenerationService given a client.
func NewGenerationService(client ports.GammaClient, opts ...Option) *GenerationService {
	s := &GenerationService{
		client: client,
		clock:  realClock{},
		logger: applog.WithComponent("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create submits a generation by delegating to the underlying client.
func (s *GenerationService) Create(ctx context.Context, req domain.GenerationRequest) (domain.JobHandle, error) {
	return s.client.CreateGeneration(ctx, req)
}

// Status retrieves one status snapshot by delegating to the client.
func (s *GenerationService) Status(ctx context.Context, handle domain.JobHandle) (domain.JobStatus, error) {
	return s.client.GetGenerationStatus(ctx, handle)
}

// ListResources enumerates themes or folders by delegating to the client.
func (s *GenerationService) ListResources(ctx context.Context, kind domain.ResourceKind) ([]domain.ResourceRecord, error) {
	return s.client.ListResources(ctx, kind)
}
