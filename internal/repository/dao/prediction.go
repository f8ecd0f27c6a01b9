package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Prediction struct {
	ID uint `gorm:"primaryKey"`

	UserID    uint `gorm:"not null;uniqueIndex:uni_predictions_user_fixture"`
	FixtureID uint `gorm:"not null;uniqueIndex:uni_predictions_user_fixture"`
	RoundID   uint `gorm:"not null;index"`

	HomeGoals *int
	AwayGoals *int
	IsJoker   bool `gorm:"not null;default:false"`
	Points    *int

	SubmittedAt time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// StandingRow is one eligible scored prediction joined with its owner and
// fixture, as consumed by the standings aggregation.
type StandingRow struct {
	UserID    uint
	Name      string
	TeamName  string
	AvatarURL string
	Points    *int
	HomeGoals *int
	AwayGoals *int
	HomeScore *int
	AwayScore *int
}

type PredictionDAO struct {
	db *gorm.DB
}

func NewPredictionDAO(db *gorm.DB) *PredictionDAO {
	return &PredictionDAO{
		db: db,
	}
}

// UpsertBatch writes a whole submission atomically. Conflicts on
// (user_id, fixture_id) overwrite the stored goals, joker flag and
// submission time; awarded points are left untouched.
func (d *PredictionDAO) UpsertBatch(ctx context.Context, predictions []Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "fixture_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"home_goals", "away_goals", "is_joker", "submitted_at", "updated_at",
			}),
		}).Create(&predictions).Error
	})
}

func (d *PredictionDAO) FindByUserAndRound(ctx context.Context, userID, roundID uint) ([]Prediction, error) {
	var predictions []Prediction

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND round_id = ?", userID, roundID).
		Find(&predictions)
	if result.Error != nil {
		return nil, result.Error
	}

	return predictions, nil
}

func (d *PredictionDAO) FindByRoundID(ctx context.Context, roundID uint) ([]Prediction, error) {
	var predictions []Prediction

	result := d.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Find(&predictions)
	if result.Error != nil {
		return nil, result.Error
	}

	return predictions, nil
}

// FindStandingRows selects every prediction eligible for standings: round
// COMPLETED, fixture fully scored, owner a player. roundID and userIDs
// narrow the selection when present.
func (d *PredictionDAO) FindStandingRows(ctx context.Context, roundID *uint, userIDs []uint) ([]StandingRow, error) {
	query := d.db.WithContext(ctx).
		Table("predictions").
		Select(`users.id AS user_id, users.name, users.team_name, users.avatar_url,
			predictions.points, predictions.home_goals, predictions.away_goals,
			fixtures.home_score, fixtures.away_score`).
		Joins("JOIN fixtures ON fixtures.id = predictions.fixture_id").
		Joins("JOIN rounds ON rounds.id = predictions.round_id").
		Joins("JOIN users ON users.id = predictions.user_id").
		Where("rounds.status = ?", "COMPLETED").
		Where("fixtures.home_score IS NOT NULL AND fixtures.away_score IS NOT NULL").
		Where("users.role = ?", "PLAYER")

	if roundID != nil {
		query = query.Where("predictions.round_id = ?", *roundID)
	}
	if userIDs != nil {
		query = query.Where("predictions.user_id IN ?", userIDs)
	}

	var rows []StandingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
