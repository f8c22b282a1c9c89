package statv

import (
	"context"
	"testing"
	"time"
)

func TestChannelWatcher_ForwardsValues(t *testing.T) {
	ch := make(chan []byte, 2)
	w := NewChannelWatcher(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ch <- []byte("a")
	ch <- []byte("b")

	for _, want := range []string{"a", "b"} {
		select {
		case got := <-out:
			if string(got) != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestChannelWatcher_ClosesOnSourceClose(t *testing.T) {
	ch := make(chan []byte)
	w := NewChannelWatcher(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	close(ch)

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed output channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func TestSyncChannelWatcher_ReturnsSourceDirectly(t *testing.T) {
	ch := make(chan []byte, 1)
	w := NewSyncChannelWatcher(ch)

	out, err := w.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ch <- []byte("x")
	select {
	case got := <-out:
		if string(got) != "x" {
			t.Errorf("got %q, want x", got)
		}
	default:
		t.Fatal("expected value immediately from direct channel")
	}
}
