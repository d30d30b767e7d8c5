package entity

import "testing"

func TestOrderStatusFlow(t *testing.T) {
	cases := []struct {
		from     OrderStatus
		next     OrderStatus
		hasNext  bool
		terminal bool
	}{
		{OrderStatusNew, OrderStatusPreparing, true, false},
		{OrderStatusPreparing, OrderStatusReady, true, false},
		{OrderStatusReady, OrderStatusDelivered, true, false},
		{OrderStatusDelivered, "", false, true},
	}

	for _, tc := range cases {
		next, ok := tc.from.Next()
		if ok != tc.hasNext {
			t.Errorf("%s: Next() ok = %v, want %v", tc.from, ok, tc.hasNext)
		}
		if ok && next != tc.next {
			t.Errorf("%s: Next() = %s, want %s", tc.from, next, tc.next)
		}
		if tc.from.Terminal() != tc.terminal {
			t.Errorf("%s: Terminal() = %v, want %v", tc.from, tc.from.Terminal(), tc.terminal)
		}
	}
}

func TestOrderStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusNew, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusDelivered, true},

		// no skipping
		{OrderStatusNew, OrderStatusReady, false},
		{OrderStatusNew, OrderStatusDelivered, false},
		{OrderStatusPreparing, OrderStatusDelivered, false},

		// no going back
		{OrderStatusPreparing, OrderStatusNew, false},
		{OrderStatusReady, OrderStatusPreparing, false},
		{OrderStatusDelivered, OrderStatusReady, false},

		// nothing past delivered
		{OrderStatusDelivered, OrderStatusNew, false},

		// no self loops
		{OrderStatusNew, OrderStatusNew, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderStatusAction(t *testing.T) {
	cases := map[OrderStatus]string{
		OrderStatusNew:       "Start Preparing",
		OrderStatusPreparing: "Mark Ready",
		OrderStatusReady:     "Mark Delivered",
		OrderStatusDelivered: "",
	}
	for status, want := range cases {
		if got := status.Action(); got != want {
			t.Errorf("%s: Action() = %q, want %q", status, got, want)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("preparing"); err != nil {
		t.Fatalf("ParseOrderStatus(preparing): %v", err)
	}
	if _, err := ParseOrderStatus("cooked"); err == nil {
		t.Fatal("ParseOrderStatus(cooked): expected error")
	}
	if _, err := ParseOrderStatus(""); err == nil {
		t.Fatal("ParseOrderStatus(\"\"): expected error")
	}
}

func TestTableQuickActions(t *testing.T) {
	cases := map[TableStatus][]TableStatus{
		TableStatusAvailable: {TableStatusOccupied},
		TableStatusOccupied:  {TableStatusCleaning},
		TableStatusCleaning:  {TableStatusAvailable},
		TableStatusReserved:  {TableStatusOccupied},
	}
	for status, want := range cases {
		got := status.QuickActions()
		if len(got) != len(want) {
			t.Fatalf("%s: QuickActions() = %v, want %v", status, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: QuickActions()[%d] = %s, want %s", status, i, got[i], want[i])
			}
		}
	}
}

func TestTableSeatsParty(t *testing.T) {
	if !TableStatusOccupied.SeatsParty() || !TableStatusReserved.SeatsParty() {
		t.Error("occupied and reserved should seat a party")
	}
	if TableStatusAvailable.SeatsParty() || TableStatusCleaning.SeatsParty() {
		t.Error("available and cleaning should not seat a party")
	}
}

func TestParseTableStatus(t *testing.T) {
	for _, raw := range []string{"available", "occupied", "reserved", "cleaning"} {
		if _, err := ParseTableStatus(raw); err != nil {
			t.Errorf("ParseTableStatus(%s): %v", raw, err)
		}
	}
	if _, err := ParseTableStatus("closed"); err == nil {
		t.Error("ParseTableStatus(closed): expected error")
	}
}
