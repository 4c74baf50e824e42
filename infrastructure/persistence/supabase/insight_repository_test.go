package supabase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIlikePattern(t *testing.T) {
	assert.Equal(t, "%hiring%", ilikePattern("hiring"))
	assert.Equal(t, "%hiring advice%", ilikePattern("hiring advice"))
	// Wildcards and the or-filter separator never reach the store.
	assert.Equal(t, "%100 raise%", ilikePattern("100% raise"))
	assert.Equal(t, "%offers negotiation%", ilikePattern("offers, negotiation"))
	assert.Equal(t, "%%", ilikePattern("%,%"))
}
