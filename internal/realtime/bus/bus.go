package bus

import (
	"context"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

// Bus carries committed marketplace events between processes.
type Bus interface {
	Publish(ctx context.Context, ev domain.MarketplaceEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev domain.MarketplaceEvent)) error
	Close() error
}
