package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

// localBus delivers events to in-process forwarders. Used when no redis
// address is configured.
type localBus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers map[int]func(domain.MarketplaceEvent)
	nextID   int
	closed   bool
}

func NewLocalBus(log *logger.Logger) Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &localBus{
		log:      log.With("service", "LocalEventBus"),
		handlers: make(map[int]func(domain.MarketplaceEvent)),
	}
}

func (b *localBus) Publish(ctx context.Context, ev domain.MarketplaceEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("local event bus closed")
	}
	for _, h := range b.handlers {
		h(ev)
	}
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onEvent func(ev domain.MarketplaceEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("local event bus closed")
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = onEvent
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = map[int]func(domain.MarketplaceEvent){}
	return nil
}
