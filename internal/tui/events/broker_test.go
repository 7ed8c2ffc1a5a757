package events

import (
	"testing"
	"time"
)

func TestBrokerDeliversToTypeSubscriber(t *testing.T) {
	b := NewBroker()
	defer b.Clear()

	ch := b.Subscribe(StockAdjustedEvent)
	b.Publish(Event{Type: StockAdjustedEvent, Payload: StockPayload{ProductID: "p1", Delta: -1}})

	select {
	case ev := <-ch:
		payload, ok := ev.Payload.(StockPayload)
		if !ok || payload.ProductID != "p1" {
			t.Errorf("got payload %#v, want StockPayload for p1", ev.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBrokerWildcardSubscriber(t *testing.T) {
	b := NewBroker()
	defer b.Clear()

	all := b.Subscribe()
	b.Publish(Event{Type: SaleRecordedEvent})
	b.Publish(Event{Type: ProductDeletedEvent})

	for i := 0; i < 2; i++ {
		select {
		case <-all:
		case <-time.After(time.Second):
			t.Fatalf("wildcard subscriber missed event %d", i)
		}
	}
}

func TestBrokerIgnoresOtherTypes(t *testing.T) {
	b := NewBroker()
	defer b.Clear()

	ch := b.Subscribe(SaleRecordedEvent)
	b.Publish(Event{Type: ProductCreatedEvent})

	select {
	case ev := <-ch:
		t.Errorf("subscriber received unrelated event %v", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe(StatusMessageEvent)
	b.Unsubscribe(ch, StatusMessageEvent)

	select {
	case _, open := <-ch:
		if open {
			t.Error("expected closed channel after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
