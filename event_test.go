package statechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Creation(t *testing.T) {
	ev := NewEvent("coin")

	assert.Equal(t, EventID("coin"), ev.ID)
	assert.Nil(t, ev.Data)
	assert.False(t, ev.Timestamp.IsZero())

	withData := NewEventWithData("coin", 25)
	assert.Equal(t, 25, withData.Data)
}

func TestEvent_Matches(t *testing.T) {
	var none *Event

	assert.True(t, NewEvent("a").Matches(NewEventWithData("a", 1)))
	assert.False(t, NewEvent("a").Matches(NewEvent("b")))
	assert.False(t, NewEvent("a").Matches(none))
	assert.False(t, none.Matches(NewEvent("a")))
	assert.False(t, none.Matches(none))
}

func TestEvent_String(t *testing.T) {
	var none *Event

	assert.Equal(t, "Event:coin", NewEvent("coin").String())
	assert.Equal(t, "Event:<none>", none.String())
	assert.Equal(t, "", none.idOrEmpty())
	assert.Equal(t, "coin", NewEvent("coin").idOrEmpty())
}
