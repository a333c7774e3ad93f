package ws

import "testing"

func TestHubMembership(t *testing.T) {
	hub := NewHub()

	if hub.RoomCount() != 0 || hub.ClientCount() != 0 {
		t.Error("Fresh hub should be empty")
	}

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	c3 := newFakeConn("c3")
	hub.Join("a", c1)
	hub.Join("a", c2)
	hub.Join("b", c3)

	if hub.RoomCount() != 2 {
		t.Errorf("Expected 2 rooms, got %d", hub.RoomCount())
	}
	if hub.ClientCount() != 3 {
		t.Errorf("Expected 3 clients, got %d", hub.ClientCount())
	}

	hub.Leave("a", c1)
	hub.Leave("a", c2)
	if hub.RoomCount() != 1 {
		t.Errorf("Emptied room should vanish, got %d rooms", hub.RoomCount())
	}

	// Leaving twice or from an unknown room must be harmless.
	hub.Leave("a", c1)
	hub.Leave("ghost", c1)
}

func TestHubMulticastExcludesSender(t *testing.T) {
	hub := NewHub()

	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	c3 := newFakeConn("c3")
	hub.Join("a", c1)
	hub.Join("a", c2)
	hub.Join("b", c3)

	hub.Multicast("a", []byte(`{"type":"cursor"}`), c1)

	if len(c1.received) != 0 {
		t.Error("Excluded sender should receive nothing")
	}
	if len(c2.received) != 1 {
		t.Errorf("Room member should receive the message, got %d", len(c2.received))
	}
	if len(c3.received) != 0 {
		t.Error("Other rooms must not see the message")
	}

	hub.Multicast("a", []byte(`{"type":"cleared"}`), nil)
	if len(c1.received) != 1 || len(c2.received) != 2 {
		t.Error("Nil exclude should deliver to every member")
	}
}

func TestHubMulticastUnknownRoom(t *testing.T) {
	hub := NewHub()
	// Must not panic or deliver anywhere.
	hub.Multicast("ghost", []byte("x"), nil)
}
