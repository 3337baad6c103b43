package ws

import (
	"log/slog"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func recv(t *testing.T, name string, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case got, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed", name)
		}
		return got
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting %s", name)
	}
	return nil
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	c1 := &Client{Send: make(chan []byte, 1)}
	c2 := &Client{Send: make(chan []byte, 1)}
	h.Register(c1)
	h.Register(c2)

	msg := []byte(`{"event":"snapshot_seeded"}`)
	h.Broadcast(msg)

	if got := recv(t, "c1", c1.Send); string(got) != string(msg) {
		t.Fatalf("c1 got %q", got)
	}
	if got := recv(t, "c2", c2.Send); string(got) != string(msg) {
		t.Fatalf("c2 got %q", got)
	}
	if c1.ID == "" || c1.ID == c2.ID {
		t.Fatalf("ids not assigned: %q %q", c1.ID, c2.ID)
	}
}

// Cliente lento (buffer cheio) é removido e tem o canal fechado
func TestHub_DropsSlowClient(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	defer h.Stop()

	slow := &Client{Send: make(chan []byte, 1)}
	slow.Send <- []byte("pending") // buffer cheio
	fast := &Client{Send: make(chan []byte, 4)}
	h.Register(slow)
	h.Register(fast)

	h.Broadcast([]byte("a"))
	recv(t, "fast", fast.Send)

	deadline := time.Now().Add(500 * time.Millisecond)
	for h.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("clients=%d want 1", h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got := <-slow.Send; string(got) != "pending" {
		t.Fatalf("slow client got %q", got)
	}
	if _, ok := <-slow.Send; ok {
		t.Fatal("slow client channel should be closed")
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()

	c := &Client{Send: make(chan []byte, 1)}
	h.Register(c)
	h.Unregister(c)

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("send channel not closed")
	}

	h.Stop()
	if n := h.Clients(); n != 0 {
		t.Fatalf("clients=%d after stop", n)
	}
}

// Depois de Stop, Register e Unregister retornam sem bloquear
func TestHub_AfterStop(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	h.Stop()

	c := &Client{Send: make(chan []byte, 1)}
	h.Register(c)
	h.Unregister(c)

	if c.ID == "" {
		t.Fatal("id not assigned")
	}
	if _, ok := <-c.Send; ok {
		t.Fatal("expected closed channel")
	}
}

// Depois de Stop, Broadcast não trava mesmo com o buffer de envio cheio
func TestHub_BroadcastAfterStop(t *testing.T) {
	h := NewHub(slog.Default())
	go h.Run()
	h.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(h.sendAll)+10; i++ {
			h.Broadcast([]byte("x"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked after stop")
	}
}
