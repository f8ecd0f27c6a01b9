package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

func scoredPrediction(userID uint, name string, points int, predH, predA, actH, actA int) domain.ScoredPrediction {
	return domain.ScoredPrediction{
		UserID:    userID,
		Name:      name,
		Points:    ip(points),
		Predicted: domain.ScoreLine{Home: ip(predH), Away: ip(predA)},
		Actual:    domain.ScoreLine{Home: ip(actH), Away: ip(actA)},
	}
}

func TestComputeStandings(t *testing.T) {
	// One player, two scored fixtures: a joker exact hit (6 points) and a
	// complete miss. Points 6, one exact, one correct outcome, 50% accuracy.
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(1, "Ada", 6, 2, 1, 2, 1),
		scoredPrediction(1, "Ada", 0, 0, 3, 1, 0),
	}}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	entries, err := svc.ComputeStandings(context.Background(), nil, nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, 1, entry.Rank)
	assert.Equal(t, 6, entry.Points)
	assert.Equal(t, 2, entry.TotalPredictions)
	assert.Equal(t, 1, entry.CorrectOutcomes)
	assert.Equal(t, 1, entry.ExactScores)
	require.NotNil(t, entry.Accuracy)
	assert.InDelta(t, 50.0, *entry.Accuracy, 0.001)
	assert.Equal(t, 0, entry.Movement)
}

func TestComputeStandingsCompetitionRanking(t *testing.T) {
	// Two players tied on 5 share rank 1, the next takes 3, then 4.
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(1, "Ada", 5, 1, 0, 1, 0),
		scoredPrediction(2, "Bea", 5, 2, 0, 2, 0),
		scoredPrediction(3, "Cid", 3, 3, 0, 3, 0),
		scoredPrediction(4, "Dov", 1, 1, 0, 2, 0),
	}}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	entries, err := svc.ComputeStandings(context.Background(), nil, nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, []int{1, 1, 3, 4}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})
}

func TestComputeStandingsTiesSortByName(t *testing.T) {
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(2, "Zoe", 3, 1, 0, 1, 0),
		scoredPrediction(1, "Ada", 3, 2, 0, 2, 0),
	}}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	entries, err := svc.ComputeStandings(context.Background(), nil, nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ada", entries[0].Name)
	assert.Equal(t, "Zoe", entries[1].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
}

func TestComputeStandingsNilPointsCountAsZero(t *testing.T) {
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		{
			UserID:    1,
			Name:      "Ada",
			Predicted: domain.ScoreLine{Home: ip(1), Away: ip(1)},
			Actual:    domain.ScoreLine{Home: ip(0), Away: ip(0)},
		},
	}}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	entries, err := svc.ComputeStandings(context.Background(), nil, nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Points)
	assert.Equal(t, 1, entries[0].TotalPredictions)
}

func TestComputeStandingsMovement(t *testing.T) {
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(1, "Ada", 9, 1, 0, 1, 0),
		scoredPrediction(2, "Bea", 4, 2, 0, 2, 0),
	}}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	baseline := []domain.StandingEntry{
		{UserID: 1, Rank: 3},
		{UserID: 2, Rank: 1},
	}

	entries, err := svc.ComputeStandings(context.Background(), nil, nil, baseline)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Movement, "Ada climbed from 3 to 1")
	assert.Equal(t, -1, entries[1].Movement, "Bea dropped from 1 to 2")
}

func TestComputeStandingsUnknownUserFilter(t *testing.T) {
	repo := &fakeStandingsRepo{}
	svc := NewStandingsService(repo, newFakeStore(), nil)

	entries, err := svc.ComputeStandings(context.Background(), nil, []uint{404}, nil)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, repo.calls, "no aggregation when the filter matches nobody")
}

func TestComputeStandingsUsesCache(t *testing.T) {
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(1, "Ada", 3, 1, 0, 1, 0),
	}}
	cache := newFakeCache()
	svc := NewStandingsService(repo, newFakeStore(), cache)
	ctx := context.Background()

	first, err := svc.ComputeStandings(ctx, nil, nil, nil)
	require.NoError(t, err)
	second, err := svc.ComputeStandings(ctx, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls, "second call is served from the cache")
	assert.Equal(t, 1, cache.sets)
}

func TestComputeStandingsCachedEntriesStillGetMovement(t *testing.T) {
	repo := &fakeStandingsRepo{scored: []domain.ScoredPrediction{
		scoredPrediction(1, "Ada", 3, 1, 0, 1, 0),
	}}
	cache := newFakeCache()
	svc := NewStandingsService(repo, newFakeStore(), cache)
	ctx := context.Background()

	_, err := svc.ComputeStandings(ctx, nil, nil, nil)
	require.NoError(t, err)

	baseline := []domain.StandingEntry{{UserID: 1, Rank: 5}}
	entries, err := svc.ComputeStandings(ctx, nil, nil, baseline)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Movement, "movement applies on top of cached entries")
}

func TestStandingsCacheKey(t *testing.T) {
	round := uint(7)

	assert.Equal(t, "standings:all:*all*", standingsCacheKey(nil, nil))
	assert.Equal(t, "standings:round:7:*all*", standingsCacheKey(&round, nil))
	assert.Equal(t, "standings:round:7:2,5,9", standingsCacheKey(&round, []uint{9, 2, 5}),
		"user sets hash to the same key regardless of order")
	assert.Equal(t, standingsCacheKey(nil, []uint{1, 2}), standingsCacheKey(nil, []uint{2, 1}))
}
