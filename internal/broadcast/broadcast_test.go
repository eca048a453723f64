package broadcast

import (
	"testing"

	"github.com/ryanthedev/reactor/internal/types"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe(4)
	defer unsubscribe()

	h.Publish(Event{WorkspaceChanged: &WorkspaceChanged{WorkspaceId: types.VirtualWorkspaceId{Index: 1}, Name: "one"}})

	select {
	case got := <-ch:
		if got.WorkspaceChanged == nil || got.WorkspaceChanged.Name != "one" {
			t.Fatalf("unexpected event: %+v", got)
		}
	default:
		t.Fatal("expected event to be delivered")
	}
}

func TestPublishDropsWhenSubscriberBufferFull(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe(1)
	defer unsubscribe()

	h.Publish(Event{WindowsChanged: &WindowsChanged{Name: "a"}})
	h.Publish(Event{WindowsChanged: &WindowsChanged{Name: "b"}})

	first := <-ch
	if first.WindowsChanged.Name != "a" {
		t.Fatalf("expected first buffered event to survive, got %+v", first)
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected no second event once buffer was full, got %+v", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe(1)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after unsubscribe")
	}
}

func TestPublishWithNoSubscribersDoesNotBlock(t *testing.T) {
	h := NewHub()
	h.Publish(Event{})
}
