package domain

import "time"

// State is the soft-delete lifecycle of community content:
// Active -> Deleted, terminal and one-way.
type State interface {
	isState()
}

type Active struct{}

type Deleted struct {
	At time.Time
}

func (Active) isState()  {}
func (Deleted) isState() {}

// restoreState maps a nullable storage timestamp onto the lifecycle.
func restoreState(deletedAt *time.Time) State {
	if deletedAt == nil {
		return Active{}
	}
	return Deleted{At: *deletedAt}
}

func deletedAt(s State) *time.Time {
	if d, ok := s.(Deleted); ok {
		at := d.At
		return &at
	}
	return nil
}
