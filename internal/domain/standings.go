package domain

// ScoredPrediction is one eligible prediction row feeding the standings:
// the owning player, the awarded points and both score lines so outcome and
// exact-score counters can be derived.
type ScoredPrediction struct {
	UserID    uint
	Name      string
	TeamName  string
	AvatarURL string
	Points    *int
	Predicted ScoreLine
	Actual    ScoreLine
}

// StandingEntry is one ranked leaderboard row.
type StandingEntry struct {
	UserID           uint     `json:"user_id"`
	Name             string   `json:"name"`
	TeamName         string   `json:"team_name"`
	AvatarURL        string   `json:"avatar_url"`
	Rank             int      `json:"rank"`
	Points           int      `json:"points"`
	TotalPredictions int      `json:"total_predictions"`
	CorrectOutcomes  int      `json:"correct_outcomes"`
	ExactScores      int      `json:"exact_scores"`
	Accuracy         *float64 `json:"accuracy"`
	Movement         int      `json:"movement"`
}
