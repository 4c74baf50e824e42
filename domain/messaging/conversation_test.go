package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("bbb", "aaa")
	assert.Equal(t, "aaa", a)
	assert.Equal(t, "bbb", b)

	// Same row regardless of argument order
	x1, y1 := CanonicalPair("user-x", "user-y")
	x2, y2 := CanonicalPair("user-y", "user-x")
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}

func TestConversationParties(t *testing.T) {
	conv := Conversation{User1ID: "aaa", User2ID: "bbb"}

	assert.Equal(t, "bbb", conv.OtherParty("aaa"))
	assert.Equal(t, "aaa", conv.OtherParty("bbb"))
	assert.True(t, conv.HasParty("aaa"))
	assert.True(t, conv.HasParty("bbb"))
	assert.False(t, conv.HasParty("ccc"))
}
