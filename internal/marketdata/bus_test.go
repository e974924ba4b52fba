package marketdata

import "testing"

func TestBusFanOut(t *testing.T) {
	b := NewBus()
	a := b.Subscribe()
	c := b.Subscribe()
	if b.Subscribers() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", b.Subscribers())
	}
	b.PublishOrderResult(OrderResult{Symbol: "BTC/USD", Side: "buy", StatusCode: 201})
	for _, ch := range []chan Event{a, c} {
		evt := <-ch
		if evt.Type != EventOrderResult || evt.TS == 0 {
			t.Fatalf("unexpected event %+v", evt)
		}
		if r, ok := evt.Data.(OrderResult); !ok || r.Symbol != "BTC/USD" {
			t.Fatalf("unexpected payload %+v", evt.Data)
		}
	}
	b.Unsubscribe(a)
	b.Unsubscribe(a)
	if _, ok := <-a; ok {
		t.Fatal("expected closed channel")
	}
	if b.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", b.Subscribers())
	}
}

func TestBusDropsWhenFull(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	for i := 0; i < b.buffer+10; i++ {
		b.Publish(Event{Type: "x"})
	}
	if len(ch) != b.buffer {
		t.Fatalf("expected full buffer of %d, got %d", b.buffer, len(ch))
	}
}
