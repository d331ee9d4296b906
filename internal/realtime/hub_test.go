package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

var (
	seller = domain.MustIdentity("0x1111111111111111111111111111111111111111")
	buyer  = domain.MustIdentity("0x2222222222222222222222222222222222222222")
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func purchasedEvent(t *testing.T, id uint64) domain.MarketplaceEvent {
	t.Helper()
	raw, err := json.Marshal(domain.ProductPurchased{OrderID: 1, ProductID: 1, Buyer: buyer, Quantity: 2, TotalCost: 200})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return domain.MarketplaceEvent{ID: id, Kind: domain.EventProductPurchased, Payload: datatypes.JSON(raw)}
}

func TestSSEHubResilienceReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	clientA := hub.NewSSEClient(buyer)
	hub.AddChannel(clientA, MarketChannel)

	hub.Broadcast(SSEMessage{Channel: MarketChannel, Event: SSEEventProductListed, ID: 1})
	hub.Broadcast(SSEMessage{Channel: MarketChannel, Event: SSEEventProductPurchased, ID: 2})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.ID != 1 {
		t.Fatalf("first event: want=1 got=%d", got.ID)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.ID != 2 {
		t.Fatalf("second event: want=2 got=%d", got.ID)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}
	if n := hub.Subscribers(MarketChannel); n != 0 {
		t.Fatalf("subscribers after close: %d", n)
	}

	clientB := hub.NewSSEClient(buyer)
	hub.AddChannel(clientB, MarketChannel)
	hub.Broadcast(SSEMessage{Channel: MarketChannel, Event: SSEEventOrderDelivered, ID: 3})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventOrderDelivered {
		t.Fatalf("reconnect event: got=%s", got.Event)
	}
}

func TestMessagesForRoutesToParties(t *testing.T) {
	msgs := MessagesFor(purchasedEvent(t, 9))
	if len(msgs) != 2 {
		t.Fatalf("messages: %+v", msgs)
	}
	if msgs[0].Channel != MarketChannel || msgs[1].Channel != IdentityChannel(buyer) {
		t.Fatalf("channels: %s %s", msgs[0].Channel, msgs[1].Channel)
	}
	if msgs[1].Event != SSEEventProductPurchased || msgs[1].ID != 9 {
		t.Fatalf("message: %+v", msgs[1])
	}
	var p domain.ProductPurchased
	if err := json.Unmarshal(msgs[1].Data, &p); err != nil || p.TotalCost != 200 {
		t.Fatalf("payload: %+v err=%v", p, err)
	}
}

func TestIdentityChannelIgnoresZero(t *testing.T) {
	if ch := IdentityChannel(domain.ZeroIdentity); ch != "" {
		t.Fatalf("zero identity channel: %q", ch)
	}
	if ch := IdentityChannel(seller); ch != "identity:0x1111111111111111111111111111111111111111" {
		t.Fatalf("seller channel: %q", ch)
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(buyer)
	hub.AddChannel(client, MarketChannel)
	for _, m := range MessagesFor(purchasedEvent(t, 4)) {
		hub.Broadcast(m)
	}
	hub.CloseClient(client)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)
	hub.ServeHTTP(rec, req, client)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "id: 4\n") || !strings.Contains(body, "event: ProductPurchased\n") {
		t.Fatalf("stream body: %q", body)
	}
}
