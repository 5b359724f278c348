package notify

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"stock_orders/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialBroadcaster(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForSubscriber blocks until the server side has registered a client.
// The upgrade handshake finishes asynchronously after Dial returns.
func waitForSubscriber(t *testing.T, b *Broadcaster) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.mu.Lock()
		n := len(b.clients)
		b.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("subscriber never registered")
}

func sampleOrder() domain.Order {
	return *domain.NewOrder(1, "AAPL", domain.SideBuy, decimal.NewFromInt(10), decimal.NewFromInt(10))
}

func TestBroadcasterDeliversEvents(t *testing.T) {
	b := NewBroadcaster(testLogger())
	defer b.Close()
	conn := dialBroadcaster(t, b)

	waitForSubscriber(t, b)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	b.Publish(NewEvent(EventOrderCreated, sampleOrder()))

	var got Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if got.Type != EventOrderCreated {
		t.Errorf("type = %s, want order.created", got.Type)
	}
	if got.Order.AssetName != "AAPL" {
		t.Errorf("asset = %s, want AAPL", got.Order.AssetName)
	}
	if got.ID == "" {
		t.Error("event id is empty")
	}
}

func TestBroadcasterCloseDisconnectsClients(t *testing.T) {
	b := NewBroadcaster(testLogger())
	conn := dialBroadcaster(t, b)

	waitForSubscriber(t, b)
	b.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected read to fail after Close")
	}

	b.mu.Lock()
	n := len(b.clients)
	b.mu.Unlock()
	if n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
}
