package aggregates

import (
	"encoding/json"
	"time"

	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

// recordEvent appends an outbox row inside dbc's transaction, stamped with the
// aggregate clock so it agrees with the rows written alongside it.
func recordEvent(dbc dbctx.Context, events repos.EventRepo, now time.Time, kind domain.EventKind, payload any) (domain.MarketplaceEvent, error) {
	if events == nil {
		return domain.MarketplaceEvent{}, InvariantError("event repo not configured")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.MarketplaceEvent{}, err
	}
	row := &domain.MarketplaceEvent{
		Kind:      kind,
		Payload:   datatypes.JSON(raw),
		CreatedAt: now,
	}
	if err := events.Create(dbc, row); err != nil {
		return domain.MarketplaceEvent{}, err
	}
	return *row, nil
}
