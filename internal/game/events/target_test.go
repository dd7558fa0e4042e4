package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget_StructuralEquality(t *testing.T) {
	assert.Equal(t, ObjectTarget(1), ObjectTarget(1))
	assert.NotEqual(t, ObjectTarget(1), ObjectTarget(2))
	assert.NotEqual(t, ObjectTarget(1), PlayerTarget(1))
	assert.Equal(t, PlayerTarget(0), PlayerTarget(0))
}

func TestRedirectScope_Allows(t *testing.T) {
	obj := ObjectTarget(1)
	player := PlayerTarget(0)

	assert.True(t, RedirectObjectsOnly.Allows(obj))
	assert.False(t, RedirectObjectsOnly.Allows(player))

	assert.False(t, RedirectPlayersOnly.Allows(obj))
	assert.True(t, RedirectPlayersOnly.Allows(player))

	assert.True(t, RedirectPlayersOrObjects.Allows(obj))
	assert.True(t, RedirectPlayersOrObjects.Allows(player))
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "object(7)", ObjectTarget(7).String())
	assert.Equal(t, "player(2)", PlayerTarget(2).String())
}
