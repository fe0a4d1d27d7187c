package utils

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"6125550137", true},
		{"(612) 555-0137", true},
		{"1-612-555-0137", true},
		{"+16125550137", true},
		{"555-0137", false},
		{"26125550137", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidatePhoneNumber(tc.phone); got != tc.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestToE164(t *testing.T) {
	cases := []struct{ in, want string }{
		{"6125550137", "+16125550137"},
		{"(612) 555-0137", "+16125550137"},
		{"16125550137", "+16125550137"},
		{"+16125550137", "+16125550137"},
	}
	for _, tc := range cases {
		if got := ToE164(tc.in); got != tc.want {
			t.Errorf("ToE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct{ in, want string }{
		{"6125550137", "(612) 555-0137"},
		{"16125550137", "+1 (612) 555-0137"},
		{"not a phone", "not a phone"},
	}
	for _, tc := range cases {
		if got := FormatPhoneNumber(tc.in); got != tc.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
