package ports

import (
	"context"

	"gamma-cli/internal/domain"
)

// GammaClient defines the hexagonal port used by the application layer to
// interact with the Gamma Generate API.  Implementations must be safe for
// concurrent use by independent poll sessions.
type GammaClient interface {
	// CreateGeneration submits a generation request and returns the handle
	// the server assigned to it.
	CreateGeneration(ctx context.Context, req domain.GenerationRequest) (domain.JobHandle, error)
	// GetGenerationStatus fetches the current status snapshot of a generation.
	GetGenerationStatus(ctx context.Context, handle domain.JobHandle) (domain.JobStatus, error)
	// ListResources enumerates workspace themes or folders.
	ListResources(ctx context.Context, kind domain.ResourceKind) ([]domain.ResourceRecord, error)
}
