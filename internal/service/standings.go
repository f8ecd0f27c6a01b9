package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tippspiel/tippspiel-api/internal/domain"
)

type StandingsRepository interface {
	FindScoredPredictions(ctx context.Context, roundID *uint, userIDs []uint) ([]domain.ScoredPrediction, error)
}

type StandingsUserRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
}

type StandingsService struct {
	repo     StandingsRepository
	userRepo StandingsUserRepository
	cache    StandingsCache
	collator *collate.Collator
}

func NewStandingsService(repo StandingsRepository, userRepo StandingsUserRepository, cache StandingsCache) *StandingsService {
	return &StandingsService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
		collator: collate.New(language.English),
	}
}

// ComputeStandings builds the leaderboard over all completed rounds, or one
// round when roundID is set, optionally restricted to the given users. Only
// predictions of players, in completed rounds, against fully scored fixtures
// count. The baseline, when supplied, yields per-entry rank movement.
func (s *StandingsService) ComputeStandings(ctx context.Context, roundID *uint, userIDs []uint, baseline []domain.StandingEntry) ([]domain.StandingEntry, error) {
	// An explicit filter that resolves to no users means an empty board;
	// skip the aggregation query entirely.
	if userIDs != nil {
		users, err := s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("s.userRepo.FindByIDs -> %w", err)
		}
		if len(users) == 0 {
			return []domain.StandingEntry{}, nil
		}
	}

	key := standingsCacheKey(roundID, userIDs)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return applyMovement(cached, baseline), nil
		}
	}

	scored, err := s.repo.FindScoredPredictions(ctx, roundID, userIDs)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindScoredPredictions -> %w", err)
	}

	entries := s.aggregate(scored)

	if s.cache != nil {
		s.cache.Set(ctx, key, entries)
	}

	return applyMovement(entries, baseline), nil
}

func (s *StandingsService) aggregate(scored []domain.ScoredPrediction) []domain.StandingEntry {
	byUser := make(map[uint]*domain.StandingEntry)
	for _, p := range scored {
		entry, ok := byUser[p.UserID]
		if !ok {
			entry = &domain.StandingEntry{
				UserID:    p.UserID,
				Name:      p.Name,
				TeamName:  p.TeamName,
				AvatarURL: p.AvatarURL,
			}
			byUser[p.UserID] = entry
		}

		entry.TotalPredictions++
		if p.Points != nil {
			entry.Points += *p.Points
		}

		if p.Predicted.Valid() && p.Actual.Valid() {
			if p.Predicted.Outcome() == p.Actual.Outcome() {
				entry.CorrectOutcomes++
			}
			if *p.Predicted.Home == *p.Actual.Home && *p.Predicted.Away == *p.Actual.Away {
				entry.ExactScores++
			}
		}
	}

	entries := make([]domain.StandingEntry, 0, len(byUser))
	for _, entry := range byUser {
		if entry.TotalPredictions > 0 {
			pct := float64(entry.CorrectOutcomes) / float64(entry.TotalPredictions) * 100
			pct = math.Round(pct*10) / 10
			entry.Accuracy = &pct
		}
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return s.collator.CompareString(entries[i].Name, entries[j].Name) < 0
	})

	// Competition ranking: tied totals share the rank of the first position
	// in the tie group ("1,1,3,4").
	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}

	return entries
}

func applyMovement(entries, baseline []domain.StandingEntry) []domain.StandingEntry {
	if len(entries) == 0 {
		return []domain.StandingEntry{}
	}
	if len(baseline) == 0 {
		return entries
	}

	previousRank := make(map[uint]int, len(baseline))
	for _, entry := range baseline {
		previousRank[entry.UserID] = entry.Rank
	}

	result := make([]domain.StandingEntry, len(entries))
	copy(result, entries)
	for i := range result {
		if prev, ok := previousRank[result[i].UserID]; ok {
			result[i].Movement = prev - result[i].Rank
		}
	}

	return result
}

func standingsCacheKey(roundID *uint, userIDs []uint) string {
	scope := "all"
	if roundID != nil {
		scope = "round:" + strconv.FormatUint(uint64(*roundID), 10)
	}

	if userIDs == nil {
		return "standings:" + scope + ":*all*"
	}

	ids := make([]string, 0, len(userIDs))
	sorted := append([]uint(nil), userIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		ids = append(ids, strconv.FormatUint(uint64(id), 10))
	}

	return "standings:" + scope + ":" + strings.Join(ids, ",")
}
