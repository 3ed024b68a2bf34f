package lifecycle

import "testing"

func TestPublishInvokesRegisteredHandlersInOrder(t *testing.T) {
	b := NewBus()
	var order []string

	b.Subscribe(ConnAccepted, func(Event) { order = append(order, "first") })
	b.Subscribe(ConnAccepted, func(Event) { order = append(order, "second") })
	b.Subscribe(ConnClosed, func(Event) { order = append(order, "should not run") })

	b.Publish(Event{Type: ConnAccepted, FD: 7})

	want := []string{"first", "second"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPublishWithNoSubscribersIsNoop(t *testing.T) {
	b := NewBus()
	b.Publish(Event{Type: Tick})
}

func TestTickEventCarriesConnectionCount(t *testing.T) {
	b := NewBus()
	var gotCount int
	b.Subscribe(Tick, func(ev Event) { gotCount = ev.Count })

	b.Publish(Event{Type: Tick, Count: 3})
	if gotCount != 3 {
		t.Fatalf("gotCount = %d, want 3", gotCount)
	}
}
