package service

import (
	"sort"

	"github.com/dom/fantasy-cricket-draft/internal/domain"
)

// Ranker orders players into a deterministic best-first sequence. The
// contract is total, deterministic, and stable: equal inputs always produce
// equal output, with ties broken by player identity. Auto-draft, bulk
// completion, the roster optimizer, and the mock draft simulator all consume
// this to obtain "best remaining player" semantics.
type Ranker interface {
	Rank(players []*domain.Player) []*domain.Player
}

// RatingRanker ranks by rating descending, player ID ascending on ties.
type RatingRanker struct{}

func NewRatingRanker() RatingRanker {
	return RatingRanker{}
}

func (RatingRanker) Rank(players []*domain.Player) []*domain.Player {
	ranked := make([]*domain.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].ID.String() < ranked[j].ID.String()
	})
	return ranked
}
