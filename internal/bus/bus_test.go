package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("export.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindExportStarted, Timestamp: time.Now(), Payload: ExportStatus{JobID: "j1"}})

	select {
	case evt := <-ch:
		if evt.Kind != KindExportStarted {
			t.Errorf("got kind %q, want %q", evt.Kind, KindExportStarted)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("export.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindConversationsLoaded})
	b.Publish(Event{Kind: KindExportCompleted})

	select {
	case evt := <-ch:
		if evt.Kind != KindExportCompleted {
			t.Errorf("got kind %q, want %q", evt.Kind, KindExportCompleted)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the conversations event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("export.", 10)
	unsub()

	b.Publish(Event{Kind: KindExportStarted})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("export.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(Event{Kind: KindExportStarted})
	// This should be dropped (non-blocking).
	b.Publish(Event{Kind: KindExportCompleted})

	evt := <-ch
	if evt.Kind != KindExportStarted {
		t.Errorf("got %q, want %q", evt.Kind, KindExportStarted)
	}
}
