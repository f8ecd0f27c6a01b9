package repository

import (
	"context"
	"fmt"

	"github.com/tippspiel/tippspiel-api/internal/domain"
	"github.com/tippspiel/tippspiel-api/internal/repository/dao"
)

var (
	ErrRoundNotFound   = dao.ErrRoundNotFound
	ErrFixtureNotFound = dao.ErrFixtureNotFound
)

type RoundDAO interface {
	Insert(ctx context.Context, round dao.Round) (dao.Round, error)
	FindByID(ctx context.Context, id uint) (dao.Round, error)
	FindAll(ctx context.Context) ([]dao.Round, error)
	FindLatestByStatus(ctx context.Context, status string) (dao.Round, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	InsertFixtures(ctx context.Context, fixtures []dao.Fixture) ([]dao.Fixture, error)
	FindFixtureByID(ctx context.Context, id uint) (dao.Fixture, error)
	FindFixturesByRoundID(ctx context.Context, roundID uint) ([]dao.Fixture, error)
	UpdateFixtureResult(ctx context.Context, id uint, home, away int) error
	CompleteWithPoints(ctx context.Context, roundID uint, points map[uint]int) error
}

type RoundRepository struct {
	dao RoundDAO
}

func NewRoundRepository(dao RoundDAO) *RoundRepository {
	return &RoundRepository{
		dao: dao,
	}
}

func (r *RoundRepository) Create(ctx context.Context, round domain.Round) (domain.Round, error) {
	created, err := r.dao.Insert(ctx, dao.Round{
		Name:       round.Name,
		Deadline:   round.Deadline,
		Status:     string(round.Status),
		JokerLimit: round.JokerLimit,
		CreatorID:  round.CreatorID,
	})
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RoundRepository) FindByID(ctx context.Context, id uint) (domain.Round, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RoundRepository) FindAll(ctx context.Context) ([]domain.Round, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	rounds := make([]domain.Round, 0, len(found))
	for _, round := range found {
		rounds = append(rounds, r.daoToDomain(round))
	}

	return rounds, nil
}

func (r *RoundRepository) FindLatestByStatus(ctx context.Context, status domain.RoundStatus) (domain.Round, error) {
	found, err := r.dao.FindLatestByStatus(ctx, string(status))
	if err != nil {
		return domain.Round{}, fmt.Errorf("r.dao.FindLatestByStatus -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RoundRepository) UpdateStatus(ctx context.Context, id uint, status domain.RoundStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *RoundRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RoundRepository) InsertFixtures(ctx context.Context, roundID uint, fixtures []domain.Fixture) ([]domain.Fixture, error) {
	daoFixtures := make([]dao.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		daoFixtures = append(daoFixtures, dao.Fixture{
			RoundID:   roundID,
			HomeTeam:  f.HomeTeam,
			AwayTeam:  f.AwayTeam,
			KickoffAt: f.KickoffAt,
			Status:    string(domain.FixtureScheduled),
		})
	}

	created, err := r.dao.InsertFixtures(ctx, daoFixtures)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertFixtures -> %w", err)
	}

	result := make([]domain.Fixture, 0, len(created))
	for _, f := range created {
		result = append(result, r.fixtureDAOToDomain(f))
	}

	return result, nil
}

func (r *RoundRepository) FindFixtureByID(ctx context.Context, id uint) (domain.Fixture, error) {
	found, err := r.dao.FindFixtureByID(ctx, id)
	if err != nil {
		return domain.Fixture{}, fmt.Errorf("r.dao.FindFixtureByID -> %w", err)
	}

	return r.fixtureDAOToDomain(found), nil
}

func (r *RoundRepository) FindFixturesByRoundID(ctx context.Context, roundID uint) ([]domain.Fixture, error) {
	found, err := r.dao.FindFixturesByRoundID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFixturesByRoundID -> %w", err)
	}

	fixtures := make([]domain.Fixture, 0, len(found))
	for _, f := range found {
		fixtures = append(fixtures, r.fixtureDAOToDomain(f))
	}

	return fixtures, nil
}

func (r *RoundRepository) UpdateFixtureResult(ctx context.Context, id uint, home, away int) error {
	if err := r.dao.UpdateFixtureResult(ctx, id, home, away); err != nil {
		return fmt.Errorf("r.dao.UpdateFixtureResult -> %w", err)
	}

	return nil
}

func (r *RoundRepository) CompleteWithPoints(ctx context.Context, roundID uint, points map[uint]int) error {
	if err := r.dao.CompleteWithPoints(ctx, roundID, points); err != nil {
		return fmt.Errorf("r.dao.CompleteWithPoints -> %w", err)
	}

	return nil
}

func (r *RoundRepository) daoToDomain(round dao.Round) domain.Round {
	return domain.Round{
		ID:         round.ID,
		Name:       round.Name,
		Deadline:   round.Deadline,
		Status:     domain.RoundStatus(round.Status),
		JokerLimit: round.JokerLimit,
		CreatorID:  round.CreatorID,
		CreatedAt:  round.CreatedAt,
		UpdatedAt:  round.UpdatedAt,
	}
}

func (r *RoundRepository) fixtureDAOToDomain(f dao.Fixture) domain.Fixture {
	return domain.Fixture{
		ID:        f.ID,
		RoundID:   f.RoundID,
		HomeTeam:  f.HomeTeam,
		AwayTeam:  f.AwayTeam,
		KickoffAt: f.KickoffAt,
		HomeScore: f.HomeScore,
		AwayScore: f.AwayScore,
		Status:    domain.FixtureStatus(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
