package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tippspiel/tippspiel-api/internal/domain"
	"github.com/tippspiel/tippspiel-api/internal/repository"
)

var (
	ErrRoundNotFound           = repository.ErrRoundNotFound
	ErrFixtureNotFound         = repository.ErrFixtureNotFound
	ErrInvalidStatusTransition = errors.New("invalid round status transition")
	ErrRoundNotClosed          = errors.New("round must be closed before scoring")
	ErrNegativeScore           = errors.New("scores must be non-negative")
)

// StandingsCache is the optional cache in front of standings computation.
// Writers only need invalidation; the standings service also reads/writes
// entries. A nil cache disables caching entirely.
type StandingsCache interface {
	Get(ctx context.Context, key string) ([]domain.StandingEntry, bool)
	Set(ctx context.Context, key string, entries []domain.StandingEntry)
	InvalidateRound(ctx context.Context, roundID uint)
}

type RoundRepository interface {
	Create(ctx context.Context, round domain.Round) (domain.Round, error)
	FindByID(ctx context.Context, id uint) (domain.Round, error)
	FindAll(ctx context.Context) ([]domain.Round, error)
	UpdateStatus(ctx context.Context, id uint, status domain.RoundStatus) error
	Delete(ctx context.Context, id uint) error
	InsertFixtures(ctx context.Context, roundID uint, fixtures []domain.Fixture) ([]domain.Fixture, error)
	FindFixtureByID(ctx context.Context, id uint) (domain.Fixture, error)
	FindFixturesByRoundID(ctx context.Context, roundID uint) ([]domain.Fixture, error)
	UpdateFixtureResult(ctx context.Context, id uint, home, away int) error
	CompleteWithPoints(ctx context.Context, roundID uint, points map[uint]int) error
}

type RoundPredictionRepository interface {
	FindByRoundID(ctx context.Context, roundID uint) ([]domain.Prediction, error)
}

type RoundService struct {
	repo     RoundRepository
	predRepo RoundPredictionRepository
	cache    StandingsCache
}

func NewRoundService(repo RoundRepository, predRepo RoundPredictionRepository, cache StandingsCache) *RoundService {
	return &RoundService{
		repo:     repo,
		predRepo: predRepo,
		cache:    cache,
	}
}

// CreateRound opens a new round in SETUP regardless of the requested status.
func (s *RoundService) CreateRound(ctx context.Context, round domain.Round) (domain.Round, error) {
	round.Status = domain.RoundSetup

	created, err := s.repo.Create(ctx, round)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RoundService) GetRound(ctx context.Context, id uint) (domain.Round, error) {
	round, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return round, nil
}

func (s *RoundService) GetRounds(ctx context.Context) ([]domain.Round, error) {
	rounds, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return rounds, nil
}

// SetStatus performs an admin-driven status change. COMPLETED is rejected
// here; rounds only complete through ScoreRound.
func (s *RoundService) SetStatus(ctx context.Context, roundID uint, status domain.RoundStatus) (domain.Round, error) {
	round, err := s.repo.FindByID(ctx, roundID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !round.Status.CanTransitionTo(status) {
		return domain.Round{}, ErrInvalidStatusTransition
	}

	if err = s.repo.UpdateStatus(ctx, roundID, status); err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	round.Status = status

	return round, nil
}

// DeleteRound removes the round with its fixtures and predictions.
func (s *RoundService) DeleteRound(ctx context.Context, roundID uint) error {
	if err := s.repo.Delete(ctx, roundID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.invalidate(ctx, roundID)

	return nil
}

// AddFixtures bulk-inserts imported fixture rows into a round. Upstream
// competition semantics are not validated, only that the round exists and
// required fields survived the request layer.
func (s *RoundService) AddFixtures(ctx context.Context, roundID uint, fixtures []domain.Fixture) ([]domain.Fixture, error) {
	if _, err := s.repo.FindByID(ctx, roundID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	created, err := s.repo.InsertFixtures(ctx, roundID, fixtures)
	if err != nil {
		return nil, fmt.Errorf("s.repo.InsertFixtures -> %w", err)
	}

	return created, nil
}

// EnterResult records a fixture's final score. Results may be entered at any
// round status; they only take effect on points once the round is scored.
func (s *RoundService) EnterResult(ctx context.Context, fixtureID uint, home, away int) error {
	if home < 0 || away < 0 {
		return ErrNegativeScore
	}

	fixture, err := s.repo.FindFixtureByID(ctx, fixtureID)
	if err != nil {
		return fmt.Errorf("s.repo.FindFixtureByID -> %w", err)
	}

	if err = s.repo.UpdateFixtureResult(ctx, fixtureID, home, away); err != nil {
		return fmt.Errorf("s.repo.UpdateFixtureResult -> %w", err)
	}

	s.invalidate(ctx, fixture.RoundID)

	return nil
}

// ScoreRound converts every prediction of a CLOSED round into points and
// flips the round to COMPLETED in one transaction. Fixtures still missing a
// final score are skipped so partial results can be filled in after a reset;
// re-running overwrites earlier point values instead of accumulating.
func (s *RoundService) ScoreRound(ctx context.Context, roundID uint) (domain.Round, error) {
	round, err := s.repo.FindByID(ctx, roundID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if round.Status != domain.RoundClosed {
		return domain.Round{}, ErrRoundNotClosed
	}

	fixtures, err := s.repo.FindFixturesByRoundID(ctx, roundID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.FindFixturesByRoundID -> %w", err)
	}

	fixtureByID := make(map[uint]domain.Fixture, len(fixtures))
	for _, f := range fixtures {
		fixtureByID[f.ID] = f
	}

	predictions, err := s.predRepo.FindByRoundID(ctx, roundID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.predRepo.FindByRoundID -> %w", err)
	}

	points := make(map[uint]int, len(predictions))
	for _, p := range predictions {
		fixture, ok := fixtureByID[p.FixtureID]
		if !ok {
			zap.L().Warn("prediction references unknown fixture",
				zap.Uint("prediction_id", p.ID),
				zap.Uint("fixture_id", p.FixtureID))
			continue
		}

		result := fixture.Result()
		if !result.Complete() {
			// No final score yet; the prediction stays unscored.
			continue
		}

		predicted := p.Line()
		if !result.Valid() || (predicted.Complete() && !predicted.Valid()) {
			zap.L().Warn("invalid stored score, awarding zero points",
				zap.Uint("prediction_id", p.ID),
				zap.Uint("fixture_id", fixture.ID))
		}

		points[p.ID] = domain.CalculatePoints(predicted, result, p.IsJoker)
	}

	if err = s.repo.CompleteWithPoints(ctx, roundID, points); err != nil {
		return domain.Round{}, fmt.Errorf("s.repo.CompleteWithPoints -> %w", err)
	}

	s.invalidate(ctx, roundID)

	round.Status = domain.RoundCompleted

	return round, nil
}

func (s *RoundService) invalidate(ctx context.Context, roundID uint) {
	if s.cache != nil {
		s.cache.InvalidateRound(ctx, roundID)
	}
}
