package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRoundRequest struct {
	Name       string    `json:"name"`
	Deadline   time.Time `json:"deadline"`
	JokerLimit int       `json:"joker_limit"`
}

func (req *CreateRoundRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Deadline, validation.Required),
		validation.Field(&req.JokerLimit, validation.Min(0)),
	)
}

type UpdateRoundStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateRoundStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		// COMPLETED is deliberately absent; rounds complete through scoring.
		validation.Field(&req.Status, validation.Required, validation.In("SETUP", "OPEN", "CLOSED")),
	)
}

type FixtureImport struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	KickoffAt time.Time `json:"kickoff_at"`
}

func (f FixtureImport) Validate() error {
	return validation.ValidateStruct(
		&f,
		validation.Field(&f.HomeTeam, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.AwayTeam, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.KickoffAt, validation.Required),
	)
}

type AddFixturesRequest struct {
	Fixtures []FixtureImport `json:"fixtures"`
}

func (req *AddFixturesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Fixtures, validation.Required),
	)
}

type EnterResultRequest struct {
	HomeScore *int `json:"home_score"`
	AwayScore *int `json:"away_score"`
}

func (req *EnterResultRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.HomeScore, validation.NotNil, validation.Min(0)),
		validation.Field(&req.AwayScore, validation.NotNil, validation.Min(0)),
	)
}
