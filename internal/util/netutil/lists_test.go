package netutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b ,c"))
	assert.Equal(t, []string{""}, SplitList(""))
	assert.Equal(t, "a,b", JoinList([]string{"a", "b"}))
}

func TestParseIP(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"10.0.0.1", true},
		{"2001:db8::1", true},
		{"::1", true},
		{"fe80::1%eth0", false},
		{"[2001:db8::1]", false},
		{"host.example.com", false},
		{"10.0.0.256", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseIP(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBadIPs(t *testing.T) {
	assert.Empty(t, BadIPs("10.0.0.1,10.0.0.2"))
	assert.Equal(t, []string{"nope", "300.1.1.1"}, BadIPs("nope,10.0.0.1,300.1.1.1"))
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3260", 3260, true},
		{"1", 1, true},
		{"65535", 65535, true},
		{"0", 0, false},
		{"65536", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePort(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err, tt.in)
		}
	}
}

func TestParsePortList(t *testing.T) {
	ports, err := ParsePortList("3260, 3261")
	require.NoError(t, err)
	assert.Equal(t, []int{3260, 3261}, ports)

	_, err = ParsePortList("3260,70000")
	assert.Error(t, err)
}
