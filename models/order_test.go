package models

import "testing"

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("shipped").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusDelivered, true},

		// cancellation from any non-terminal state
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},

		// no skipping steps
		{OrderStatusPending, OrderStatusPreparing, false},
		{OrderStatusConfirmed, OrderStatusDelivered, false},

		// no moving backwards
		{OrderStatusPreparing, OrderStatusConfirmed, false},
		{OrderStatusConfirmed, OrderStatusPending, false},

		// terminal states stay terminal
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
