package domain

import (
	"fmt"
	"strings"
)

type ActorID string

// Actor is one online presence of a participant. Session changes every time
// the participant joins, so a handle captured before a leave never matches the
// actor after a rejoin even though the ID is the same.
type Actor struct {
	ID      ActorID
	Name    string
	Session uint64
}

// SameSession reports whether other is the same presence as a.
func (a Actor) SameSession(other Actor) bool {
	return a.ID == other.ID && a.Session == other.Session
}

// DisplayName falls back to the raw identifier for actors that could not be resolved.
func (a Actor) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return string(a.ID)
}

type Location struct {
	World string
	X     float64
	Y     float64
	Z     float64
}

func (l Location) String() string {
	return fmt.Sprintf("%s (%.1f, %.1f, %.1f)", l.World, l.X, l.Y, l.Z)
}
