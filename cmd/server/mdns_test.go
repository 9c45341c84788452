// cmd/server/mdns_test.go
package main

import "testing"

func TestParsePort(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"8086", 8086, false},
		{":8086", 8086, false},
		{"", 0, true},
		{"http", 0, true},
	}
	for _, tc := range cases {
		got, err := parsePort(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected err: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}
