package models

import "testing"

func TestDeliveryZoneMatches(t *testing.T) {
	zone := &DeliveryZone{
		Name:    "Minneapolis Metro",
		Suburbs: StringList{"Minneapolis", "St. Paul", " Edina "},
	}

	tests := []struct {
		city string
		want bool
	}{
		{"Minneapolis", true},
		{"minneapolis", true},
		{"MINNEAPOLIS", true},
		{"  St. Paul  ", true},
		{"Edina", true},
		{"Duluth", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := zone.Matches(tc.city); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.city, got, tc.want)
		}
	}
}
