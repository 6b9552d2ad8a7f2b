package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest_IsStableAndHidesToken(t *testing.T) {
	a := digest("auth:abc")
	assert.Equal(t, a, digest("auth:abc"))
	assert.NotEqual(t, a, digest("auth:abd"))
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "abc")
}

func TestClientIP(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"203.0.113.7":               "203.0.113.7",
		" 203.0.113.7 , 10.0.0.1":   "203.0.113.7",
		"2001:db8::1, 198.51.100.2": "2001:db8::1",
	}
	for in, want := range cases {
		assert.Equal(t, want, clientIP(in), in)
	}
}
