package viewer

import (
	"fmt"
)

// State is the render state of a viewer.
type State int

const (
	// StateLoading means no post is available yet. Without the failed state
	// option a failed post fetch also stays here.
	StateLoading State = iota
	// StateLoaded means a post has been fetched for the identifier.
	StateLoaded
	// StateFailed means the last post fetch failed and a retry is offered.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "loading":
		*s = StateLoading
	case "loaded":
		*s = StateLoaded
	case "failed":
		*s = StateFailed
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}
