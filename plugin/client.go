package plugin

import (
	"fmt"
	"strings"
)

// ScriptStashUnitCheck is the host script that reports whether the STASH
// unit with the given object id is built. It leaves 1 on the stack when built.
const ScriptStashUnitCheck = 1479

// Client is the part of the game client the plugin calls into.
type Client interface {
	GameState() GameState
	// RunScript runs a client script and returns the top of its int stack.
	RunScript(script int, args ...int) int
}

// GameState is the connection state of the game client.
type GameState int

const (
	GameStateUnknown GameState = iota
	GameStateLoginScreen
	GameStateLoggingIn
	GameStateLoggedIn
	GameStateLoading
	GameStateHopping
	GameStateConnectionLost
)

var gameStateNames = map[GameState]string{
	GameStateUnknown:        "UNKNOWN",
	GameStateLoginScreen:    "LOGIN_SCREEN",
	GameStateLoggingIn:      "LOGGING_IN",
	GameStateLoggedIn:       "LOGGED_IN",
	GameStateLoading:        "LOADING",
	GameStateHopping:        "HOPPING",
	GameStateConnectionLost: "CONNECTION_LOST",
}

func (s GameState) String() string {
	if name, ok := gameStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("GameState(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name, case-insensitively.
func (s *GameState) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for state, n := range gameStateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", string(text))
}

// ChatMessageType classifies a chat line.
type ChatMessageType int

const (
	ChatOther ChatMessageType = iota
	ChatGameMessage
	ChatSpam
	ChatBroadcast
	ChatPublic
)

var chatTypeNames = map[ChatMessageType]string{
	ChatOther:       "OTHER",
	ChatGameMessage: "GAMEMESSAGE",
	ChatSpam:        "SPAM",
	ChatBroadcast:   "BROADCAST",
	ChatPublic:      "PUBLICCHAT",
}

func (t ChatMessageType) String() string {
	if name, ok := chatTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ChatMessageType(%d)", int(t))
}

// MarshalText encodes the type by name.
func (t ChatMessageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name. Unrecognised names decode as ChatOther.
func (t *ChatMessageType) UnmarshalText(text []byte) error {
	name := strings.ToUpper(strings.TrimSpace(string(text)))
	for typ, n := range chatTypeNames {
		if n == name {
			*t = typ
			return nil
		}
	}
	*t = ChatOther
	return nil
}
