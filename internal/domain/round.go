package domain

import "time"

type RoundStatus string

const (
	RoundSetup     RoundStatus = "SETUP"
	RoundOpen      RoundStatus = "OPEN"
	RoundClosed    RoundStatus = "CLOSED"
	RoundCompleted RoundStatus = "COMPLETED"
)

type Round struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Deadline   time.Time   `json:"deadline"`
	Status     RoundStatus `json:"status"`
	JokerLimit int         `json:"joker_limit"`
	CreatorID  uint        `json:"creator_id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CanTransitionTo reports whether an admin status change from s to target is
// legal. COMPLETED is never a legal target here; a round only completes
// through scoring. Resetting to SETUP is allowed from anywhere as the escape
// hatch for unwinding mistakes.
func (s RoundStatus) CanTransitionTo(target RoundStatus) bool {
	switch target {
	case RoundSetup:
		return true
	case RoundOpen:
		return s == RoundSetup
	case RoundClosed:
		return s == RoundOpen
	default:
		return false
	}
}

// LockedForWrites is the single predicate gating prediction writes: a round
// no longer accepts predictions once it leaves OPEN or its deadline passes.
func (r Round) LockedForWrites(now time.Time) bool {
	return r.Status != RoundOpen || !now.Before(r.Deadline)
}
