package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string // empty = expect error
	}{
		{"120.5", "120.5"},
		{"120,5", "120.5"},
		{"0.01", "0.01"},
		{"1000", "1000"},
		{" 12.34 ", "12.34"},
		{"0", ""},
		{"0.00", ""},
		{"-5", ""},
		{"+5", ""},
		{"", ""},
		{"  ", ""},
		{"12.3.4", ""},
		{"abc", ""},
		{"12e3", ""},
		{"$12", ""},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.want == "" {
			if err != ErrInvalidAmount {
				t.Errorf("ParseAmount(%q): expected ErrInvalidAmount, got %v (%v)", tc.in, err, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
