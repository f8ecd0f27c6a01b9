package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

var (
	ErrRoundLocked        = errors.New("round no longer accepts predictions")
	ErrReadOnlyRole       = errors.New("visitors cannot submit predictions")
	ErrFixtureNotInRound  = errors.New("fixture does not belong to the round")
	ErrDuplicateFixture   = errors.New("duplicate fixture in submission")
	ErrNegativeGoals      = errors.New("predicted goals must be non-negative")
	ErrJokerLimitExceeded = errors.New("joker limit for the round exceeded")
	ErrNoActiveRound      = errors.New("no open round")
)

// Goal counts used by the random bulk-fill.
const (
	randomGoalsMin = 0
	randomGoalsMax = 4
)

type PredictionRepository interface {
	UpsertBatch(ctx context.Context, predictions []domain.Prediction) error
	FindByUserAndRound(ctx context.Context, userID, roundID uint) ([]domain.Prediction, error)
}

type PredictionRoundRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Round, error)
	FindLatestByStatus(ctx context.Context, status domain.RoundStatus) (domain.Round, error)
	FindFixturesByRoundID(ctx context.Context, roundID uint) ([]domain.Fixture, error)
}

type PredictionUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type PredictionService struct {
	repo      PredictionRepository
	roundRepo PredictionRoundRepository
	userRepo  PredictionUserRepository
	cache     StandingsCache
	faker     *gofakeit.Faker
	now       func() time.Time
}

func NewPredictionService(
	repo PredictionRepository,
	roundRepo PredictionRoundRepository,
	userRepo PredictionUserRepository,
	cache StandingsCache,
) *PredictionService {
	return &PredictionService{
		repo:      repo,
		roundRepo: roundRepo,
		userRepo:  userRepo,
		cache:     cache,
		faker:     gofakeit.New(0),
		now:       time.Now,
	}
}

// SubmitPredictions upserts a player's batch for one round. The whole batch
// is rejected when the round is locked, a fixture is foreign to the round, a
// goal value is negative, or the resulting joker count for (user, round)
// would exceed the round's limit. Existing rows not covered by the batch
// keep counting against that limit.
func (s *PredictionService) SubmitPredictions(ctx context.Context, userID, roundID uint, entries []domain.PredictionEntry) error {
	round, err := s.checkWritable(ctx, userID, roundID)
	if err != nil {
		return err
	}

	fixtures, err := s.roundRepo.FindFixturesByRoundID(ctx, roundID)
	if err != nil {
		return fmt.Errorf("s.roundRepo.FindFixturesByRoundID -> %w", err)
	}

	inRound := make(map[uint]bool, len(fixtures))
	for _, f := range fixtures {
		inRound[f.ID] = true
	}

	inBatch := make(map[uint]bool, len(entries))
	jokers := 0
	for _, entry := range entries {
		if !inRound[entry.FixtureID] {
			return ErrFixtureNotInRound
		}
		if inBatch[entry.FixtureID] {
			return ErrDuplicateFixture
		}
		inBatch[entry.FixtureID] = true

		if (entry.HomeGoals != nil && *entry.HomeGoals < 0) ||
			(entry.AwayGoals != nil && *entry.AwayGoals < 0) {
			return ErrNegativeGoals
		}
		if entry.IsJoker {
			jokers++
		}
	}

	existing, err := s.repo.FindByUserAndRound(ctx, userID, roundID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByUserAndRound -> %w", err)
	}
	for _, p := range existing {
		if p.IsJoker && !inBatch[p.FixtureID] {
			jokers++
		}
	}

	if jokers > round.JokerLimit {
		return ErrJokerLimitExceeded
	}

	submittedAt := s.now()
	predictions := make([]domain.Prediction, 0, len(entries))
	for _, entry := range entries {
		predictions = append(predictions, domain.Prediction{
			UserID:      userID,
			FixtureID:   entry.FixtureID,
			RoundID:     roundID,
			HomeGoals:   entry.HomeGoals,
			AwayGoals:   entry.AwayGoals,
			IsJoker:     entry.IsJoker,
			SubmittedAt: submittedAt,
		})
	}

	if err = s.repo.UpsertBatch(ctx, predictions); err != nil {
		return fmt.Errorf("s.repo.UpsertBatch -> %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateRound(ctx, roundID)
	}

	return nil
}

// GenerateRandomPredictions fills every fixture the user has not predicted
// yet with random goal counts. Handy for demos and load tests; it obeys the
// same write lock as a normal submission.
func (s *PredictionService) GenerateRandomPredictions(ctx context.Context, userID, roundID uint) error {
	if _, err := s.checkWritable(ctx, userID, roundID); err != nil {
		return err
	}

	fixtures, err := s.roundRepo.FindFixturesByRoundID(ctx, roundID)
	if err != nil {
		return fmt.Errorf("s.roundRepo.FindFixturesByRoundID -> %w", err)
	}

	existing, err := s.repo.FindByUserAndRound(ctx, userID, roundID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByUserAndRound -> %w", err)
	}

	predicted := make(map[uint]bool, len(existing))
	for _, p := range existing {
		predicted[p.FixtureID] = true
	}

	submittedAt := s.now()
	var predictions []domain.Prediction
	for _, f := range fixtures {
		if predicted[f.ID] {
			continue
		}

		home := s.faker.Number(randomGoalsMin, randomGoalsMax)
		away := s.faker.Number(randomGoalsMin, randomGoalsMax)
		predictions = append(predictions, domain.Prediction{
			UserID:      userID,
			FixtureID:   f.ID,
			RoundID:     roundID,
			HomeGoals:   &home,
			AwayGoals:   &away,
			IsJoker:     false,
			SubmittedAt: submittedAt,
		})
	}

	if len(predictions) == 0 {
		return nil
	}

	if err = s.repo.UpsertBatch(ctx, predictions); err != nil {
		return fmt.Errorf("s.repo.UpsertBatch -> %w", err)
	}

	if s.cache != nil {
		s.cache.InvalidateRound(ctx, roundID)
	}

	return nil
}

// GetActiveRoundView returns the open round with its fixtures and the
// user's predictions merged per fixture.
func (s *PredictionService) GetActiveRoundView(ctx context.Context, userID uint) (domain.RoundView, error) {
	round, err := s.roundRepo.FindLatestByStatus(ctx, domain.RoundOpen)
	if err != nil {
		if errors.Is(err, ErrRoundNotFound) {
			return domain.RoundView{}, ErrNoActiveRound
		}

		return domain.RoundView{}, fmt.Errorf("s.roundRepo.FindLatestByStatus -> %w", err)
	}

	fixtures, err := s.roundRepo.FindFixturesByRoundID(ctx, round.ID)
	if err != nil {
		return domain.RoundView{}, fmt.Errorf("s.roundRepo.FindFixturesByRoundID -> %w", err)
	}

	predictions, err := s.repo.FindByUserAndRound(ctx, userID, round.ID)
	if err != nil {
		return domain.RoundView{}, fmt.Errorf("s.repo.FindByUserAndRound -> %w", err)
	}

	byFixture := make(map[uint]domain.Prediction, len(predictions))
	for _, p := range predictions {
		byFixture[p.FixtureID] = p
	}

	view := domain.RoundView{
		Round:    round,
		Fixtures: make([]domain.FixtureWithPrediction, 0, len(fixtures)),
	}
	for _, f := range fixtures {
		merged := domain.FixtureWithPrediction{Fixture: f}
		if p, ok := byFixture[f.ID]; ok {
			prediction := p
			merged.Prediction = &prediction
		}
		view.Fixtures = append(view.Fixtures, merged)
	}

	return view, nil
}

func (s *PredictionService) checkWritable(ctx context.Context, userID, roundID uint) (domain.Round, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}
	if !user.CanPredict() {
		return domain.Round{}, ErrReadOnlyRole
	}

	round, err := s.roundRepo.FindByID(ctx, roundID)
	if err != nil {
		return domain.Round{}, fmt.Errorf("s.roundRepo.FindByID -> %w", err)
	}
	if round.LockedForWrites(s.now()) {
		return domain.Round{}, ErrRoundLocked
	}

	return round, nil
}
