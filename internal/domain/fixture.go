package domain

import "time"

type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "SCHEDULED"
	FixtureFinished  FixtureStatus = "FINISHED"
)

type Fixture struct {
	ID        uint          `json:"id"`
	RoundID   uint          `json:"round_id"`
	HomeTeam  string        `json:"home_team"`
	AwayTeam  string        `json:"away_team"`
	KickoffAt time.Time     `json:"kickoff_at"`
	HomeScore *int          `json:"home_score"`
	AwayScore *int          `json:"away_score"`
	Status    FixtureStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Result returns the final score as a ScoreLine; incomplete until both
// scores have been entered.
func (f Fixture) Result() ScoreLine {
	return ScoreLine{Home: f.HomeScore, Away: f.AwayScore}
}
