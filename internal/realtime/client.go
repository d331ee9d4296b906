package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type SSEClient struct {
	ID       uuid.UUID
	Identity domain.Identity
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	close    sync.Once
	Logger   *logger.Logger
}
