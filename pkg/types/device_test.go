package types

import "testing"

func TestDeviceActive(t *testing.T) {
	cases := []struct {
		name string
		d    Device
		want bool
	}{
		{"active with address", Device{Condition: "active", Address: "10.0.0.1"}, true},
		{"lost device", Device{Condition: "lost", Address: "10.0.0.1"}, false},
		{"no address", Device{Condition: "active", Address: ""}, false},
	}
	for _, c := range cases {
		if got := c.d.Active(); got != c.want {
			t.Errorf("%s: Active() = %v, want %v", c.name, got, c.want)
		}
	}
}
