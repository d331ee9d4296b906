package realtime

import (
	"encoding/json"
	"strings"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

// MarketChannel receives every marketplace event.
const MarketChannel = "market"

type SSEEvent string

const (
	SSEEventProductListed        SSEEvent = "ProductListed"
	SSEEventProductPurchased     SSEEvent = "ProductPurchased"
	SSEEventOrderDelivered       SSEEvent = "OrderDelivered"
	SSEEventPlatformOwnerUpdated SSEEvent = "PlatformOwnerUpdated"
)

var eventNames = map[domain.EventKind]SSEEvent{
	domain.EventProductListed:        SSEEventProductListed,
	domain.EventProductPurchased:     SSEEventProductPurchased,
	domain.EventOrderDelivered:       SSEEventOrderDelivered,
	domain.EventPlatformOwnerUpdated: SSEEventPlatformOwnerUpdated,
}

type SSEMessage struct {
	Channel string          `json:"channel"`
	Event   SSEEvent        `json:"event"`
	ID      uint64          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IdentityChannel is the per-party channel for an identity.
func IdentityChannel(id domain.Identity) string {
	if id.IsZero() {
		return ""
	}
	return "identity:" + strings.ToLower(id.String())
}

// MessagesFor fans one stored event out to the market channel and to the
// channels of the parties named in its payload.
func MessagesFor(ev domain.MarketplaceEvent) []SSEMessage {
	name, ok := eventNames[ev.Kind]
	if !ok {
		name = SSEEvent(ev.Kind)
	}
	data := json.RawMessage(ev.Payload)
	out := []SSEMessage{{Channel: MarketChannel, Event: name, ID: ev.ID, Data: data}}
	for _, party := range parties(ev) {
		if ch := IdentityChannel(party); ch != "" {
			out = append(out, SSEMessage{Channel: ch, Event: name, ID: ev.ID, Data: data})
		}
	}
	return out
}

func parties(ev domain.MarketplaceEvent) []domain.Identity {
	var ids []domain.Identity
	switch ev.Kind {
	case domain.EventProductListed:
		var p domain.ProductListed
		if json.Unmarshal(ev.Payload, &p) == nil {
			ids = append(ids, p.Seller)
		}
	case domain.EventProductPurchased:
		var p domain.ProductPurchased
		if json.Unmarshal(ev.Payload, &p) == nil {
			ids = append(ids, p.Buyer)
		}
	case domain.EventOrderDelivered:
		var p domain.OrderDelivered
		if json.Unmarshal(ev.Payload, &p) == nil {
			ids = append(ids, p.Buyer)
		}
	case domain.EventPlatformOwnerUpdated:
		var p domain.PlatformOwnerUpdated
		if json.Unmarshal(ev.Payload, &p) == nil {
			ids = append(ids, p.Previous)
			if p.Next != p.Previous {
				ids = append(ids, p.Next)
			}
		}
	}
	return ids
}
