// Package event defines the host events the daemon consumes, one JSON object
// per line.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/clueitems/inventory"
	"github.com/grovetools/clueitems/plugin"
)

// Type names an event.
type Type string

const (
	TypeGameState   Type = "game_state"
	TypeChat        Type = "chat"
	TypeContainer   Type = "container"
	TypeTick        Type = "tick"
	TypeConfig      Type = "config"
	TypeStashBuilt  Type = "stash_built"
	TypeStashFilled Type = "stash_filled"
	TypeDismiss     Type = "dismiss_notification"
)

// SourceProfile marks events the profile watcher derived from the saved
// settings rather than ones the host sent.
const SourceProfile = "profile"

// Event is a single host event. Only the fields of its Type are set.
type Event struct {
	Type Type `json:"type"`

	// Source is SourceProfile for events read back from the settings
	// profile, empty for events reported by the host.
	Source string `json:"source,omitempty"`

	// game_state
	State plugin.GameState `json:"state,omitempty"`

	// chat
	ChatType plugin.ChatMessageType `json:"chat_type,omitempty"`
	Message  string                 `json:"message,omitempty"`

	// container
	ContainerID int              `json:"container_id,omitempty"`
	Items       []inventory.Item `json:"items,omitempty"`

	// config
	Group string `json:"group,omitempty"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// stash_built lists the units the host reports as built.
	Units []string `json:"units,omitempty"`

	// stash_filled
	Unit   string `json:"unit,omitempty"`
	Filled bool   `json:"filled,omitempty"`
}

// Decode parses and validates one event line.
func Decode(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, err
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Encode renders ev as a single JSON line without the trailing newline.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Validate checks that the fields required by the event type are present.
func (ev Event) Validate() error {
	switch ev.Type {
	case TypeGameState:
		if ev.State == plugin.GameStateUnknown {
			return fmt.Errorf("game_state event without state")
		}
	case TypeChat, TypeTick, TypeStashBuilt, TypeDismiss:
	case TypeContainer:
		if ev.ContainerID == 0 {
			return fmt.Errorf("container event without container_id")
		}
	case TypeConfig:
		if ev.Key == "" {
			return fmt.Errorf("config event without key")
		}
	case TypeStashFilled:
		if ev.Unit == "" {
			return fmt.Errorf("stash_filled event without unit")
		}
	case "":
		return fmt.Errorf("event without type")
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
