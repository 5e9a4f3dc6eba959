package progress

import "fmt"

// Status is the collection state of a single item.
type Status int

const (
	// StatusUnknown means progress cannot be decided yet: no relevant
	// interface is tracked, or a tracked one has not been opened this session.
	StatusUnknown Status = iota
	// StatusMissing means every relevant interface was observed and the item
	// was in none of them.
	StatusMissing
	// StatusOwned means the item was observed, or is stored in a filled STASH
	// unit while STASH filtering is on.
	StatusOwned
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusMissing:
		return "missing"
	case StatusOwned:
		return "owned"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "unknown":
		return StatusUnknown, nil
	case "missing":
		return StatusMissing, nil
	case "owned":
		return StatusOwned, nil
	default:
		return StatusUnknown, fmt.Errorf("unknown status %q", name)
	}
}

// ItemState is the derived progress of one catalogue item.
type ItemState struct {
	Quantity int    `json:"quantity"`
	Status   Status `json:"status"`
}
