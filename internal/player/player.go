// Package player is the opaque playback collaborator. The core hands
// it stream URIs and consumes its event stream; decode and rendering
// live behind the driver.
package player

// State of the playback pipeline.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Event is one playback status emission.
type Event struct {
	State      State
	PositionMS int64
	Err        error
}

// Player is the playback surface the UI drives. Implementations must
// not block the caller; results and failures arrive on Events.
type Player interface {
	SetURI(uri string) error
	Play() error
	Pause() error
	Stop() error
	Seek(positionMS int64) error
	Events() <-chan Event
	Close() error
}
