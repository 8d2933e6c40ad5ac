package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marcador/internal/application"
	"marcador/internal/delivery/ws"
	"marcador/internal/models"

	"github.com/gorilla/websocket"
)

func TestLiveFeedThroughRouter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub(nopLogger{}, []string{"*"})
	go hub.Run(ctx)
	defer hub.Stop()

	handler := NewHandler(HandlerDeps{
		Services:       &application.Service{},
		Live:           hub,
		Logger:         nopLogger{},
		AllowedOrigins: []string{"*"},
	}).Routes()
	srv := httptest.NewServer(handler)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/partidos/5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := hub.Notify(ctx, models.MatchUpdate{Type: models.UpdateScoreAdjusted, MatchID: 4}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := hub.Notify(ctx, models.MatchUpdate{Type: models.UpdateMatchStarted, MatchID: 5, Status: models.StatusLive}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got models.MatchUpdate
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MatchID != 5 || got.Type != models.UpdateMatchStarted {
		t.Fatalf("expected the match 5 update only, got %+v", got)
	}
}
