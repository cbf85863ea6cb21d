package pipeline

import (
	"testing"
	"time"
)

func TestSubscribePublishUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}

	frame := []byte("jpeg-1")
	if drops := b.Publish(frame); drops != 0 {
		t.Fatalf("Publish drops = %d, want 0", drops)
	}

	select {
	case got := <-ch:
		if string(got) != "jpeg-1" {
			t.Fatalf("received %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame received")
	}

	b.Unsubscribe(id)
	if got := b.ClientCount(); got != 0 {
		t.Fatalf("ClientCount after unsubscribe = %d, want 0", got)
	}
	// Channel must be closed so stream handlers can exit.
	if _, ok := <-ch; ok {
		t.Fatal("channel not closed after unsubscribe")
	}
}

func TestSlowViewerDropsFrames(t *testing.T) {
	b := NewBroadcaster()
	_, ch := b.Subscribe()

	// Viewer buffer holds 2 frames; the third publish must drop.
	b.Publish([]byte("f1"))
	b.Publish([]byte("f2"))
	if drops := b.Publish([]byte("f3")); drops != 1 {
		t.Fatalf("Publish drops = %d, want 1", drops)
	}

	if got := <-ch; string(got) != "f1" {
		t.Fatalf("first frame = %q", got)
	}
}

func TestNewSubscriberGetsLatestFrame(t *testing.T) {
	b := NewBroadcaster()
	b.Publish([]byte("latest"))

	_, ch := b.Subscribe()
	select {
	case got := <-ch:
		if string(got) != "latest" {
			t.Fatalf("received %q, want latest", got)
		}
	case <-time.After(time.Second):
		t.Fatal("latest frame not delivered to new subscriber")
	}

	if got := b.Latest(); string(got) != "latest" {
		t.Fatalf("Latest() = %q", got)
	}
}

func TestUnsubscribeUnknownIDIsNoop(t *testing.T) {
	b := NewBroadcaster()
	b.Unsubscribe(42) // must not panic
}
