package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

func newPredictionFixture(t *testing.T, roundStatus domain.RoundStatus, deadline time.Time) (*fakeStore, *PredictionService, domain.Round, domain.User) {
	t.Helper()

	store := newFakeStore()
	round := store.addRound(domain.Round{
		Status:     roundStatus,
		Deadline:   deadline,
		JokerLimit: 1,
	})
	user := store.addUser(domain.RolePlayer)

	svc := NewPredictionService(store, store, fakeUserRepo{store: store}, nil)

	return store, svc, round, user
}

func TestSubmitPredictions(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)

	err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(2), AwayGoals: ip(1), IsJoker: true},
	})

	require.NoError(t, err)
	predictions, err := store.FindByUserAndRound(context.Background(), user.ID, round.ID)
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, fixture.ID, predictions[0].FixtureID)
	assert.Equal(t, 2, *predictions[0].HomeGoals)
	assert.Equal(t, 1, *predictions[0].AwayGoals)
	assert.True(t, predictions[0].IsJoker)
}

func TestSubmitPredictionsOverwritesExisting(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)
	ctx := context.Background()

	require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(0), AwayGoals: ip(0)},
	}))
	require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(3), AwayGoals: ip(2)},
	}))

	predictions, err := store.FindByUserAndRound(ctx, user.ID, round.ID)
	require.NoError(t, err)
	require.Len(t, predictions, 1, "resubmission replaces, never duplicates")
	assert.Equal(t, 3, *predictions[0].HomeGoals)
	assert.Equal(t, 2, *predictions[0].AwayGoals)
}

func TestSubmitPredictionsLockedRound(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.RoundStatus
		deadline time.Time
	}{
		{name: "round in setup", status: domain.RoundSetup, deadline: time.Now().Add(time.Hour)},
		{name: "round closed", status: domain.RoundClosed, deadline: time.Now().Add(time.Hour)},
		{name: "round completed", status: domain.RoundCompleted, deadline: time.Now().Add(time.Hour)},
		{name: "deadline passed", status: domain.RoundOpen, deadline: time.Now().Add(-time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc, round, user := newPredictionFixture(t, tt.status, tt.deadline)
			fixture := store.addFixture(round.ID)

			err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
				{FixtureID: fixture.ID, HomeGoals: ip(1), AwayGoals: ip(1)},
			})

			require.ErrorIs(t, err, ErrRoundLocked)
			assert.Empty(t, store.predictions)
		})
	}
}

func TestSubmitPredictionsAtExactDeadline(t *testing.T) {
	deadline := time.Date(2026, 5, 30, 15, 30, 0, 0, time.UTC)
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, deadline)
	fixture := store.addFixture(round.ID)
	svc.now = func() time.Time { return deadline }

	err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(1), AwayGoals: ip(1)},
	})

	require.ErrorIs(t, err, ErrRoundLocked, "the deadline instant itself is locked")
}

func TestSubmitPredictionsVisitorIsReadOnly(t *testing.T) {
	store, svc, round, _ := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)
	visitor := store.addUser(domain.RoleVisitor)

	err := svc.SubmitPredictions(context.Background(), visitor.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(1), AwayGoals: ip(0)},
	})

	require.ErrorIs(t, err, ErrReadOnlyRole)
}

func TestSubmitPredictionsRejectsForeignFixture(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	other := store.addRound(domain.Round{Status: domain.RoundSetup, Deadline: time.Now().Add(time.Hour)})
	foreign := store.addFixture(other.ID)

	err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: foreign.ID, HomeGoals: ip(1), AwayGoals: ip(0)},
	})

	require.ErrorIs(t, err, ErrFixtureNotInRound)
}

func TestSubmitPredictionsRejectsDuplicateFixture(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)

	err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(1), AwayGoals: ip(0)},
		{FixtureID: fixture.ID, HomeGoals: ip(2), AwayGoals: ip(0)},
	})

	require.ErrorIs(t, err, ErrDuplicateFixture)
	assert.Empty(t, store.predictions)
}

func TestSubmitPredictionsRejectsNegativeGoals(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)

	err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(-1), AwayGoals: ip(0)},
	})

	require.ErrorIs(t, err, ErrNegativeGoals)
}

func TestSubmitPredictionsJokerQuota(t *testing.T) {
	t.Run("batch over the limit", func(t *testing.T) {
		store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
		f1 := store.addFixture(round.ID)
		f2 := store.addFixture(round.ID)

		err := svc.SubmitPredictions(context.Background(), user.ID, round.ID, []domain.PredictionEntry{
			{FixtureID: f1.ID, HomeGoals: ip(1), AwayGoals: ip(0), IsJoker: true},
			{FixtureID: f2.ID, HomeGoals: ip(2), AwayGoals: ip(0), IsJoker: true},
		})

		require.ErrorIs(t, err, ErrJokerLimitExceeded)
		assert.Empty(t, store.predictions)
	})

	t.Run("existing joker counts against the limit", func(t *testing.T) {
		store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
		f1 := store.addFixture(round.ID)
		f2 := store.addFixture(round.ID)
		ctx := context.Background()

		require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
			{FixtureID: f1.ID, HomeGoals: ip(1), AwayGoals: ip(0), IsJoker: true},
		}))

		err := svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
			{FixtureID: f2.ID, HomeGoals: ip(2), AwayGoals: ip(0), IsJoker: true},
		})

		require.ErrorIs(t, err, ErrJokerLimitExceeded)
	})

	t.Run("moving the joker frees the slot", func(t *testing.T) {
		store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
		f1 := store.addFixture(round.ID)
		f2 := store.addFixture(round.ID)
		ctx := context.Background()

		require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
			{FixtureID: f1.ID, HomeGoals: ip(1), AwayGoals: ip(0), IsJoker: true},
		}))

		err := svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
			{FixtureID: f1.ID, HomeGoals: ip(1), AwayGoals: ip(0), IsJoker: false},
			{FixtureID: f2.ID, HomeGoals: ip(2), AwayGoals: ip(0), IsJoker: true},
		})

		require.NoError(t, err)
		predictions, err := store.FindByUserAndRound(ctx, user.ID, round.ID)
		require.NoError(t, err)
		jokers := 0
		for _, p := range predictions {
			if p.IsJoker {
				jokers++
			}
		}
		assert.Equal(t, 1, jokers)
	})
}

func TestGenerateRandomPredictions(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	predicted := store.addFixture(round.ID)
	missing1 := store.addFixture(round.ID)
	missing2 := store.addFixture(round.ID)
	ctx := context.Background()

	require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: predicted.ID, HomeGoals: ip(4), AwayGoals: ip(4), IsJoker: true},
	}))

	err := svc.GenerateRandomPredictions(ctx, user.ID, round.ID)

	require.NoError(t, err)
	predictions, err := store.FindByUserAndRound(ctx, user.ID, round.ID)
	require.NoError(t, err)
	require.Len(t, predictions, 3)

	byFixture := make(map[uint]domain.Prediction, len(predictions))
	for _, p := range predictions {
		byFixture[p.FixtureID] = p
	}

	// The hand-made prediction survives untouched.
	assert.Equal(t, 4, *byFixture[predicted.ID].HomeGoals)
	assert.True(t, byFixture[predicted.ID].IsJoker)

	for _, id := range []uint{missing1.ID, missing2.ID} {
		p := byFixture[id]
		require.NotNil(t, p.HomeGoals)
		require.NotNil(t, p.AwayGoals)
		assert.GreaterOrEqual(t, *p.HomeGoals, 0)
		assert.LessOrEqual(t, *p.HomeGoals, 4)
		assert.GreaterOrEqual(t, *p.AwayGoals, 0)
		assert.LessOrEqual(t, *p.AwayGoals, 4)
		assert.False(t, p.IsJoker)
	}
}

func TestGenerateRandomPredictionsNothingMissing(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	fixture := store.addFixture(round.ID)
	ctx := context.Background()

	require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: fixture.ID, HomeGoals: ip(1), AwayGoals: ip(1)},
	}))

	err := svc.GenerateRandomPredictions(ctx, user.ID, round.ID)

	require.NoError(t, err)
	predictions, err := store.FindByUserAndRound(ctx, user.ID, round.ID)
	require.NoError(t, err)
	assert.Len(t, predictions, 1)
}

func TestGenerateRandomPredictionsObeysLock(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(-time.Minute))
	store.addFixture(round.ID)

	err := svc.GenerateRandomPredictions(context.Background(), user.ID, round.ID)

	require.ErrorIs(t, err, ErrRoundLocked)
}

func TestGetActiveRoundView(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundOpen, time.Now().Add(time.Hour))
	predicted := store.addFixture(round.ID)
	unpredicted := store.addFixture(round.ID)
	ctx := context.Background()

	require.NoError(t, svc.SubmitPredictions(ctx, user.ID, round.ID, []domain.PredictionEntry{
		{FixtureID: predicted.ID, HomeGoals: ip(2), AwayGoals: ip(1)},
	}))

	view, err := svc.GetActiveRoundView(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, round.ID, view.Round.ID)
	require.Len(t, view.Fixtures, 2)

	byFixture := make(map[uint]domain.FixtureWithPrediction, len(view.Fixtures))
	for _, f := range view.Fixtures {
		byFixture[f.Fixture.ID] = f
	}
	require.NotNil(t, byFixture[predicted.ID].Prediction)
	assert.Equal(t, 2, *byFixture[predicted.ID].Prediction.HomeGoals)
	assert.Nil(t, byFixture[unpredicted.ID].Prediction)
}

func TestGetActiveRoundViewNoOpenRound(t *testing.T) {
	store, svc, round, user := newPredictionFixture(t, domain.RoundClosed, time.Now().Add(time.Hour))
	store.addFixture(round.ID)

	_, err := svc.GetActiveRoundView(context.Background(), user.ID)

	require.ErrorIs(t, err, ErrNoActiveRound)
}
