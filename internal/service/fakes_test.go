package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

// fakeStore is an in-memory stand-in for the repository layer, shared by the
// round and prediction service tests. Error fields let individual tests
// inject failures.
type fakeStore struct {
	rounds      map[uint]domain.Round
	fixtures    map[uint]domain.Fixture
	predictions map[uint]domain.Prediction
	users       map[uint]domain.User
	nextID      uint

	upsertErr   error
	completeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rounds:      make(map[uint]domain.Round),
		fixtures:    make(map[uint]domain.Fixture),
		predictions: make(map[uint]domain.Prediction),
		users:       make(map[uint]domain.User),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addUser(role domain.Role) domain.User {
	user := domain.User{
		ID:   f.id(),
		Name: fmt.Sprintf("user-%d", f.nextID),
		Role: role,
	}
	f.users[user.ID] = user

	return user
}

func (f *fakeStore) addRound(round domain.Round) domain.Round {
	round.ID = f.id()
	f.rounds[round.ID] = round

	return round
}

func (f *fakeStore) addFixture(roundID uint) domain.Fixture {
	fixture := domain.Fixture{
		ID:      f.id(),
		RoundID: roundID,
		Status:  domain.FixtureScheduled,
	}
	f.fixtures[fixture.ID] = fixture

	return fixture
}

func (f *fakeStore) addPrediction(p domain.Prediction) domain.Prediction {
	p.ID = f.id()
	f.predictions[p.ID] = p

	return p
}

// RoundRepository

func (f *fakeStore) Create(_ context.Context, round domain.Round) (domain.Round, error) {
	return f.addRound(round), nil
}

func (f *fakeStore) FindByID(_ context.Context, id uint) (domain.Round, error) {
	round, ok := f.rounds[id]
	if !ok {
		return domain.Round{}, ErrRoundNotFound
	}

	return round, nil
}

func (f *fakeStore) FindAll(_ context.Context) ([]domain.Round, error) {
	rounds := make([]domain.Round, 0, len(f.rounds))
	for _, r := range f.rounds {
		rounds = append(rounds, r)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].ID < rounds[j].ID })

	return rounds, nil
}

func (f *fakeStore) FindLatestByStatus(_ context.Context, status domain.RoundStatus) (domain.Round, error) {
	var latest domain.Round
	found := false
	for _, r := range f.rounds {
		if r.Status == status && (!found || r.ID > latest.ID) {
			latest = r
			found = true
		}
	}
	if !found {
		return domain.Round{}, ErrRoundNotFound
	}

	return latest, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uint, status domain.RoundStatus) error {
	round, ok := f.rounds[id]
	if !ok {
		return ErrRoundNotFound
	}
	round.Status = status
	f.rounds[id] = round

	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.rounds[id]; !ok {
		return ErrRoundNotFound
	}
	for pid, p := range f.predictions {
		if p.RoundID == id {
			delete(f.predictions, pid)
		}
	}
	for fid, fx := range f.fixtures {
		if fx.RoundID == id {
			delete(f.fixtures, fid)
		}
	}
	delete(f.rounds, id)

	return nil
}

func (f *fakeStore) InsertFixtures(_ context.Context, roundID uint, fixtures []domain.Fixture) ([]domain.Fixture, error) {
	created := make([]domain.Fixture, 0, len(fixtures))
	for _, fixture := range fixtures {
		fixture.ID = f.id()
		fixture.RoundID = roundID
		fixture.Status = domain.FixtureScheduled
		f.fixtures[fixture.ID] = fixture
		created = append(created, fixture)
	}

	return created, nil
}

func (f *fakeStore) FindFixtureByID(_ context.Context, id uint) (domain.Fixture, error) {
	fixture, ok := f.fixtures[id]
	if !ok {
		return domain.Fixture{}, ErrFixtureNotFound
	}

	return fixture, nil
}

func (f *fakeStore) FindFixturesByRoundID(_ context.Context, roundID uint) ([]domain.Fixture, error) {
	fixtures := make([]domain.Fixture, 0)
	for _, fixture := range f.fixtures {
		if fixture.RoundID == roundID {
			fixtures = append(fixtures, fixture)
		}
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].ID < fixtures[j].ID })

	return fixtures, nil
}

func (f *fakeStore) UpdateFixtureResult(_ context.Context, id uint, home, away int) error {
	fixture, ok := f.fixtures[id]
	if !ok {
		return ErrFixtureNotFound
	}
	fixture.HomeScore = &home
	fixture.AwayScore = &away
	fixture.Status = domain.FixtureFinished
	f.fixtures[id] = fixture

	return nil
}

func (f *fakeStore) CompleteWithPoints(_ context.Context, roundID uint, points map[uint]int) error {
	if f.completeErr != nil {
		return f.completeErr
	}

	round, ok := f.rounds[roundID]
	if !ok {
		return ErrRoundNotFound
	}

	for pid, pts := range points {
		p, ok := f.predictions[pid]
		if !ok {
			continue
		}
		value := pts
		p.Points = &value
		f.predictions[pid] = p
	}

	round.Status = domain.RoundCompleted
	f.rounds[roundID] = round

	return nil
}

// PredictionRepository

func (f *fakeStore) UpsertBatch(_ context.Context, predictions []domain.Prediction) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}

	for _, p := range predictions {
		replaced := false
		for pid, existing := range f.predictions {
			if existing.UserID == p.UserID && existing.FixtureID == p.FixtureID {
				p.ID = pid
				p.Points = existing.Points
				f.predictions[pid] = p
				replaced = true
				break
			}
		}
		if !replaced {
			f.addPrediction(p)
		}
	}

	return nil
}

func (f *fakeStore) FindByUserAndRound(_ context.Context, userID, roundID uint) ([]domain.Prediction, error) {
	predictions := make([]domain.Prediction, 0)
	for _, p := range f.predictions {
		if p.UserID == userID && p.RoundID == roundID {
			predictions = append(predictions, p)
		}
	}
	sort.Slice(predictions, func(i, j int) bool { return predictions[i].ID < predictions[j].ID })

	return predictions, nil
}

func (f *fakeStore) FindByRoundID(_ context.Context, roundID uint) ([]domain.Prediction, error) {
	predictions := make([]domain.Prediction, 0)
	for _, p := range f.predictions {
		if p.RoundID == roundID {
			predictions = append(predictions, p)
		}
	}
	sort.Slice(predictions, func(i, j int) bool { return predictions[i].ID < predictions[j].ID })

	return predictions, nil
}

// UserRepository

func (f *fakeStore) FindUserByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}

	return user, nil
}

func (f *fakeStore) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	users := make([]domain.User, 0)
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, user)
		}
	}

	return users, nil
}

// fakeUserRepo narrows fakeStore to the user lookup used by the prediction
// service, which shares the FindByID name with rounds.
type fakeUserRepo struct {
	store *fakeStore
}

func (f fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return f.store.FindUserByID(ctx, id)
}

// fakeStandingsRepo feeds pre-scored predictions straight into the standings
// aggregation.
type fakeStandingsRepo struct {
	scored []domain.ScoredPrediction
	err    error
	calls  int
}

func (f *fakeStandingsRepo) FindScoredPredictions(_ context.Context, _ *uint, _ []uint) ([]domain.ScoredPrediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	return f.scored, nil
}

type fakeCache struct {
	entries     map[string][]domain.StandingEntry
	invalidated []uint
	gets        int
	sets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]domain.StandingEntry)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]domain.StandingEntry, bool) {
	f.gets++
	entries, ok := f.entries[key]

	return entries, ok
}

func (f *fakeCache) Set(_ context.Context, key string, entries []domain.StandingEntry) {
	f.sets++
	f.entries[key] = entries
}

func (f *fakeCache) InvalidateRound(_ context.Context, roundID uint) {
	f.invalidated = append(f.invalidated, roundID)
	f.entries = make(map[string][]domain.StandingEntry)
}
