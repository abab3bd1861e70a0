package tray

import (
	"context"
	"testing"
	"time"
)

func TestServeMenu_PickThenQuit(t *testing.T) {
	pick := make(chan struct{})
	quit := make(chan struct{})
	picks := make(chan struct{}, 4)
	quits := 0

	done := make(chan struct{})
	go func() {
		defer close(done)
		serveMenu(context.Background(), pick, quit,
			func() { picks <- struct{}{} },
			func() { quits++ },
		)
	}()

	pick <- struct{}{}
	pick <- struct{}{}
	quit <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serveMenu did not return after Quit")
	}
	if len(picks) != 2 {
		t.Fatalf("OnPick ran %d times, want 2", len(picks))
	}
	if quits != 1 {
		t.Fatalf("OnQuit ran %d times, want 1", quits)
	}
}

func TestServeMenu_StopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveMenu(ctx, make(chan struct{}), make(chan struct{}), nil, func() { t.Error("OnQuit ran on cancel") })
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("serveMenu ignored cancellation")
	}
}

func TestIconEmbedded(t *testing.T) {
	if len(icon) < 8 || string(icon[1:4]) != "PNG" {
		t.Fatalf("embedded icon is not a PNG (%d bytes)", len(icon))
	}
}
