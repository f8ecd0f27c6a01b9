package domain

import "time"

type Prediction struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	FixtureID   uint      `json:"fixture_id"`
	RoundID     uint      `json:"round_id"`
	HomeGoals   *int      `json:"home_goals"`
	AwayGoals   *int      `json:"away_goals"`
	IsJoker     bool      `json:"is_joker"`
	Points      *int      `json:"points"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Line returns the predicted score as a ScoreLine; incomplete while the
// player has not filled both goal counts in.
func (p Prediction) Line() ScoreLine {
	return ScoreLine{Home: p.HomeGoals, Away: p.AwayGoals}
}

// PredictionEntry is one row of a batch submission.
type PredictionEntry struct {
	FixtureID uint
	HomeGoals *int
	AwayGoals *int
	IsJoker   bool
}

// RoundView is the read model handed to players: the active round, its
// fixtures and the player's own predictions merged in.
type RoundView struct {
	Round    Round                   `json:"round"`
	Fixtures []FixtureWithPrediction `json:"fixtures"`
}

type FixtureWithPrediction struct {
	Fixture    Fixture     `json:"fixture"`
	Prediction *Prediction `json:"prediction,omitempty"`
}
