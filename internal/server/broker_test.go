package server

import (
	"encoding/json"
	"testing"
)

func TestBrokerPublishToSubscribers(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("g1")
	other := b.Subscribe("g2")

	b.Publish("g1", GameEvent{Type: eventLevelUp, Level: 3, Correct: true})

	select {
	case data := <-ch:
		var ev GameEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != eventLevelUp || ev.Level != 3 || !ev.Correct {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatal("expected event on subscriber channel")
	}

	select {
	case <-other:
		t.Fatal("event leaked to another game's subscriber")
	default:
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("g1")
	b.Unsubscribe("g1", ch)

	b.Publish("g1", GameEvent{Type: eventGameOver, Status: "won"})

	select {
	case <-ch:
		t.Fatal("expected no event after unsubscribe")
	default:
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("g1")
	for i := 0; i < cap(ch)+5; i++ {
		b.Publish("g1", GameEvent{Type: eventLevelUp, Level: i})
	}
	if len(ch) != cap(ch) {
		t.Fatalf("expected full channel (%d buffered), got %d", cap(ch), len(ch))
	}
}
