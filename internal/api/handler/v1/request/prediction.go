package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type PredictionEntryRequest struct {
	FixtureID uint `json:"fixture_id"`
	HomeGoals *int `json:"home_goals"`
	AwayGoals *int `json:"away_goals"`
	IsJoker   bool `json:"is_joker"`
}

func (e PredictionEntryRequest) Validate() error {
	return validation.ValidateStruct(
		&e,
		validation.Field(&e.FixtureID, validation.Required),
		// Goals may stay nil until the player fills them in, but never negative.
		validation.Field(&e.HomeGoals, validation.Min(0)),
		validation.Field(&e.AwayGoals, validation.Min(0)),
	)
}

type SubmitPredictionsRequest struct {
	Predictions []PredictionEntryRequest `json:"predictions"`
}

func (req *SubmitPredictionsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Predictions, validation.Required),
	)
}
