package realtime

import "testing"

func TestHub_BroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub()
	id1, ch1 := hub.Register()
	_, ch2 := hub.Register()
	if hub.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", hub.Len())
	}

	hub.Broadcast()
	if len(ch1) != 1 || len(ch2) != 1 {
		t.Errorf("signals = %d, %d; want one each", len(ch1), len(ch2))
	}

	<-ch1
	hub.Unregister(id1)
	if hub.Len() != 1 {
		t.Errorf("Len() = %d after unregister, want 1", hub.Len())
	}
	hub.Broadcast()
	if len(ch1) != 0 {
		t.Errorf("unregistered session still got a signal")
	}
	if len(ch2) != 1 {
		t.Errorf("remaining session signals = %d, want the coalesced single signal", len(ch2))
	}
}

func TestHub_BroadcastCoalesces(t *testing.T) {
	hub := NewHub()
	_, ch := hub.Register()

	// a slow consumer never blocks the publisher; pending signals collapse
	for i := 0; i < 5; i++ {
		hub.Broadcast()
	}
	if len(ch) != 1 {
		t.Errorf("pending signals = %d, want 1", len(ch))
	}
}

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Broadcast()

	hub.Unregister("no-such-session")
	if hub.Len() != 0 {
		t.Errorf("Len() = %d, want 0", hub.Len())
	}
}
