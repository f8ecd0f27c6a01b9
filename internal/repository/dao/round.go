package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRoundNotFound   = errors.New("round not found")
	ErrFixtureNotFound = errors.New("fixture not found")
)

type Round struct {
	ID uint `gorm:"primaryKey"`

	Name       string    `gorm:"not null"`
	Deadline   time.Time `gorm:"not null"`
	Status     string    `gorm:"not null"` // "SETUP", "OPEN", "CLOSED" or "COMPLETED"
	JokerLimit int       `gorm:"not null;default:0"`
	CreatorID  uint      `gorm:"not null"`

	Fixtures []Fixture `gorm:"foreignKey:RoundID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Fixture struct {
	ID uint `gorm:"primaryKey"`

	RoundID   uint      `gorm:"not null;index"`
	HomeTeam  string    `gorm:"not null"`
	AwayTeam  string    `gorm:"not null"`
	KickoffAt time.Time `gorm:"not null"`
	HomeScore *int
	AwayScore *int
	Status    string `gorm:"not null"` // "SCHEDULED" or "FINISHED"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RoundDAO struct {
	db *gorm.DB
}

func NewRoundDAO(db *gorm.DB) *RoundDAO {
	return &RoundDAO{
		db: db,
	}
}

func (d *RoundDAO) Insert(ctx context.Context, round Round) (Round, error) {
	result := d.db.WithContext(ctx).Create(&round)
	if result.Error != nil {
		return Round{}, result.Error
	}

	return round, nil
}

func (d *RoundDAO) FindByID(ctx context.Context, id uint) (Round, error) {
	var round Round

	result := d.db.WithContext(ctx).First(&round, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Round{}, ErrRoundNotFound
		}

		return Round{}, result.Error
	}

	return round, nil
}

func (d *RoundDAO) FindAll(ctx context.Context) ([]Round, error) {
	var rounds []Round

	result := d.db.WithContext(ctx).Order("deadline DESC").Find(&rounds)
	if result.Error != nil {
		return nil, result.Error
	}

	return rounds, nil
}

// FindLatestByStatus returns the most recently updated round in the given
// status. Only one OPEN round is expected at a time; when several exist the
// newest wins.
func (d *RoundDAO) FindLatestByStatus(ctx context.Context, status string) (Round, error) {
	var round Round

	result := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at DESC").
		First(&round)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Round{}, ErrRoundNotFound
		}

		return Round{}, result.Error
	}

	return round, nil
}

func (d *RoundDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Round{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}

	return nil
}

// Delete removes a round with its fixtures and predictions in one
// transaction.
func (d *RoundDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("round_id = ?", id).Delete(&Prediction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("round_id = ?", id).Delete(&Fixture{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Round{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoundNotFound
		}

		return nil
	})
}

func (d *RoundDAO) InsertFixtures(ctx context.Context, fixtures []Fixture) ([]Fixture, error) {
	result := d.db.WithContext(ctx).Create(&fixtures)
	if result.Error != nil {
		return nil, result.Error
	}

	return fixtures, nil
}

func (d *RoundDAO) FindFixtureByID(ctx context.Context, id uint) (Fixture, error) {
	var fixture Fixture

	result := d.db.WithContext(ctx).First(&fixture, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Fixture{}, ErrFixtureNotFound
		}

		return Fixture{}, result.Error
	}

	return fixture, nil
}

func (d *RoundDAO) FindFixturesByRoundID(ctx context.Context, roundID uint) ([]Fixture, error) {
	var fixtures []Fixture

	result := d.db.WithContext(ctx).
		Where("round_id = ?", roundID).
		Order("kickoff_at ASC, id ASC").
		Find(&fixtures)
	if result.Error != nil {
		return nil, result.Error
	}

	return fixtures, nil
}

func (d *RoundDAO) UpdateFixtureResult(ctx context.Context, id uint, home, away int) error {
	result := d.db.WithContext(ctx).
		Model(&Fixture{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"home_score": home,
			"away_score": away,
			"status":     "FINISHED",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFixtureNotFound
	}

	return nil
}

// CompleteWithPoints persists the outcome of a scoring pass: every awarded
// point value plus the CLOSED -> COMPLETED flip commit together or not at
// all. Re-running overwrites previous values.
func (d *RoundDAO) CompleteWithPoints(ctx context.Context, roundID uint, points map[uint]int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for predictionID, awarded := range points {
			err := tx.Model(&Prediction{}).
				Where("id = ?", predictionID).
				Update("points", awarded).Error
			if err != nil {
				return err
			}
		}

		result := tx.Model(&Round{}).
			Where("id = ?", roundID).
			Update("status", "COMPLETED")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRoundNotFound
		}

		return nil
	})
}
