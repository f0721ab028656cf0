package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestTournamentRoom(t *testing.T) {
	if got := TournamentRoom(7); got != "torneo_7" {
		t.Errorf("TournamentRoom(7) = %q", got)
	}
}

func TestBroadcastToRoomDeliversToSubscribers(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	client := NewClient(hub, nil, TournamentRoom(7))
	hub.Register <- client

	// Register обрабатывается асинхронно.
	deadline := time.After(time.Second)
	for {
		hub.mu.RLock()
		_, registered := hub.rooms[client.Room]
		hub.mu.RUnlock()
		if registered {
			break
		}
		select {
		case <-deadline:
			t.Fatal("client was not registered in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	hub.BroadcastToRoom(TournamentRoom(7), Event{
		Type:    EventEnrollmentCreated,
		Payload: map[string]interface{}{"torneoId": 7},
	})

	select {
	case message := <-client.Send:
		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			t.Fatalf("invalid event JSON: %v", err)
		}
		if event.Type != EventEnrollmentCreated || event.RoomID != "torneo_7" {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to subscriber")
	}
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Комната без подписчиков: рассылка просто ничего не делает.
	hub.BroadcastToRoom(TournamentRoom(99), Event{Type: EventStateChanged})
}

func TestTrySendSkipsClosedClient(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	client := NewClient(hub, nil, TournamentRoom(7))

	client.closeSend()
	client.trySend([]byte("mensaje")) // не должно паниковать на закрытом канале
}
