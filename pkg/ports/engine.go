package ports

import (
	"context"

	"github.com/aretw0/sirsim/pkg/domain"
)

// Simulator runs one simulation from parameters to a finished run record.
// This is the primary interface used by adapters (e.g., HTTP, MCP).
type Simulator interface {
	// Simulate executes the run. When the run hits its day ceiling the partial
	// run is returned together with an error matching domain.ErrDidNotConverge.
	Simulate(ctx context.Context, params domain.Params) (*domain.Run, error)
}
