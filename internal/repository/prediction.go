package repository

import (
	"context"
	"fmt"

	"github.com/tippspiel/tippspiel-api/internal/domain"
	"github.com/tippspiel/tippspiel-api/internal/repository/dao"
)

type PredictionDAO interface {
	UpsertBatch(ctx context.Context, predictions []dao.Prediction) error
	FindByUserAndRound(ctx context.Context, userID, roundID uint) ([]dao.Prediction, error)
	FindByRoundID(ctx context.Context, roundID uint) ([]dao.Prediction, error)
	FindStandingRows(ctx context.Context, roundID *uint, userIDs []uint) ([]dao.StandingRow, error)
}

type PredictionRepository struct {
	dao PredictionDAO
}

func NewPredictionRepository(dao PredictionDAO) *PredictionRepository {
	return &PredictionRepository{
		dao: dao,
	}
}

func (r *PredictionRepository) UpsertBatch(ctx context.Context, predictions []domain.Prediction) error {
	daoPredictions := make([]dao.Prediction, 0, len(predictions))
	for _, p := range predictions {
		daoPredictions = append(daoPredictions, dao.Prediction{
			UserID:      p.UserID,
			FixtureID:   p.FixtureID,
			RoundID:     p.RoundID,
			HomeGoals:   p.HomeGoals,
			AwayGoals:   p.AwayGoals,
			IsJoker:     p.IsJoker,
			SubmittedAt: p.SubmittedAt,
		})
	}

	if err := r.dao.UpsertBatch(ctx, daoPredictions); err != nil {
		return fmt.Errorf("r.dao.UpsertBatch -> %w", err)
	}

	return nil
}

func (r *PredictionRepository) FindByUserAndRound(ctx context.Context, userID, roundID uint) ([]domain.Prediction, error) {
	found, err := r.dao.FindByUserAndRound(ctx, userID, roundID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserAndRound -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *PredictionRepository) FindByRoundID(ctx context.Context, roundID uint) ([]domain.Prediction, error) {
	found, err := r.dao.FindByRoundID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByRoundID -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *PredictionRepository) FindScoredPredictions(ctx context.Context, roundID *uint, userIDs []uint) ([]domain.ScoredPrediction, error) {
	rows, err := r.dao.FindStandingRows(ctx, roundID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindStandingRows -> %w", err)
	}

	scored := make([]domain.ScoredPrediction, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, domain.ScoredPrediction{
			UserID:    row.UserID,
			Name:      row.Name,
			TeamName:  row.TeamName,
			AvatarURL: row.AvatarURL,
			Points:    row.Points,
			Predicted: domain.ScoreLine{Home: row.HomeGoals, Away: row.AwayGoals},
			Actual:    domain.ScoreLine{Home: row.HomeScore, Away: row.AwayScore},
		})
	}

	return scored, nil
}

func (r *PredictionRepository) daoToDomainSlice(found []dao.Prediction) []domain.Prediction {
	predictions := make([]domain.Prediction, 0, len(found))
	for _, p := range found {
		predictions = append(predictions, domain.Prediction{
			ID:          p.ID,
			UserID:      p.UserID,
			FixtureID:   p.FixtureID,
			RoundID:     p.RoundID,
			HomeGoals:   p.HomeGoals,
			AwayGoals:   p.AwayGoals,
			IsJoker:     p.IsJoker,
			Points:      p.Points,
			SubmittedAt: p.SubmittedAt,
		})
	}

	return predictions
}
