package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientThreadRunsInOrder(t *testing.T) {
	thread := NewClientThread()
	var order []string

	thread.Invoke(func() {
		order = append(order, "first")
		thread.Invoke(func() { order = append(order, "nested") })
	})
	thread.Invoke(func() { order = append(order, "second") })
	thread.Invoke(nil)
	assert.Equal(t, 2, thread.Pending())

	assert.Equal(t, 3, thread.Drain())
	assert.Equal(t, []string{"first", "second", "nested"}, order)
	assert.Zero(t, thread.Pending())
	assert.Zero(t, thread.Drain())
}

func TestGameStateText(t *testing.T) {
	var s GameState
	assert.NoError(t, s.UnmarshalText([]byte("logged_in")))
	assert.Equal(t, GameStateLoggedIn, s)
	assert.Equal(t, "LOGIN_SCREEN", GameStateLoginScreen.String())
	assert.Error(t, s.UnmarshalText([]byte("DANCING")))
}

func TestChatMessageTypeText(t *testing.T) {
	var c ChatMessageType
	assert.NoError(t, c.UnmarshalText([]byte("spam")))
	assert.Equal(t, ChatSpam, c)
	assert.NoError(t, c.UnmarshalText([]byte("MODCHAT")))
	assert.Equal(t, ChatOther, c)
}
