package probe

import (
	"context"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// Checker performs a single reachability check against one target.
type Checker interface {
	Check(ctx context.Context, name, url string) domain.ProbeResult
}
