package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanSubscribe(t *testing.T) {
	owner := uuid.NewString()
	other := uuid.NewString()

	assert.True(t, canSubscribe("user", owner, owner), "owner may subscribe")
	assert.True(t, canSubscribe("admin", owner, other), "admin may subscribe to any report")
	assert.False(t, canSubscribe("user", owner, other), "unrelated user must be rejected")
	assert.False(t, canSubscribe("", owner, other))
}
