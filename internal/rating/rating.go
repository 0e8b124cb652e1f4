// Package rating implements the Elo-style skill rating math used for games
// and pairing. Every function here is pure and total: NaN and infinite
// inputs never leak into results. Callers that must reject such values use
// Validate; the other functions fall back as documented on each.
package rating

import (
	"errors"
	"math"
)

const (
	MinRating     = 100.0
	MaxRating     = 3000.0
	DefaultRating = 1500.0
	DefaultK      = 32.0

	// handicapStep is the rating gap that earns one handicap point.
	handicapStep = 100.0
)

// ErrNonFinite is returned by Validate for NaN or infinite values.
var ErrNonFinite = errors.New("rating: value is not finite")

// Validate rejects NaN and infinite values.
func Validate(values ...float64) error {
	for _, v := range values {
		if !finite(v) {
			return ErrNonFinite
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// InRange reports whether v lies on the rating scale.
func InRange(v float64) bool {
	return Validate(v) == nil && v >= MinRating && v <= MaxRating
}

// Round2 rounds to the two decimals ratings are stored with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp bounds v to [MinRating, MaxRating].
func Clamp(v float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, v))
}

// ExpectedScore is the probability that a player rated a beats one rated b.
// It is 0.5 when either rating is not finite.
func ExpectedScore(a, b float64) float64 {
	if Validate(a, b) != nil {
		return 0.5
	}
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// NewRating returns the rating after one game against opponent.
// A non-finite opponent or k leaves the current rating unchanged; a
// non-finite current rating yields DefaultRating.
func NewRating(current, opponent float64, won bool, k float64) float64 {
	if Validate(current) != nil {
		return DefaultRating
	}
	if Validate(opponent, k) != nil {
		return Round2(Clamp(current))
	}
	actual := 0.0
	if won {
		actual = 1.0
	}
	return Round2(Clamp(current + k*(actual-ExpectedScore(current, opponent))))
}

// KFactor is the volatility for a player with gamesPlayed rated games.
// Provisional players move faster.
func KFactor(gamesPlayed int) float64 {
	switch {
	case gamesPlayed < 10:
		return 40
	case gamesPlayed < 30:
		return 32
	default:
		return 24
	}
}

// TeamRating is the arithmetic mean of the finite ratings, or
// DefaultRating when there are none.
func TeamRating(ratings []float64) float64 {
	var sum float64
	var n int
	for _, r := range ratings {
		if finite(r) {
			sum += r
			n++
		}
	}
	if n == 0 {
		return DefaultRating
	}
	return sum / float64(n)
}

// GameRatingChanges returns one delta per player, in input order, computed
// against the opposing team's average. A player with a non-finite rating
// gets a zero delta.
func GameRatingChanges(team1, team2 []float64, team1Won bool, k float64) (team1Deltas, team2Deltas []float64) {
	avg1, avg2 := TeamRating(team1), TeamRating(team2)
	return deltas(team1, avg2, team1Won, k), deltas(team2, avg1, !team1Won, k)
}

func deltas(team []float64, opponent float64, won bool, k float64) []float64 {
	out := make([]float64, len(team))
	for i, r := range team {
		if finite(r) {
			out[i] = Round2(NewRating(r, opponent, won, k) - r)
		}
	}
	return out
}

// MatchQuality is 1.0 for an even matchup and approaches 0 as one side
// dominates. Any non-finite rating makes the quality 0.
func MatchQuality(team1, team2 []float64) float64 {
	if Validate(team1...) != nil || Validate(team2...) != nil {
		return 0
	}
	e := ExpectedScore(TeamRating(team1), TeamRating(team2))
	return 1 - 2*math.Abs(0.5-e)
}

// RatingConfidence grows with games played and caps at 0.95.
func RatingConfidence(gamesPlayed int) float64 {
	return math.Min(0.95, 1-math.Exp(-float64(gamesPlayed)/15))
}

// RatingDeviation shrinks with games played and grows with inactivity.
// Negative or non-finite idle time counts as none.
func RatingDeviation(gamesPlayed int, daysSinceLastGame float64) float64 {
	if !finite(daysSinceLastGame) || daysSinceLastGame < 0 {
		daysSinceLastGame = 0
	}
	return math.Max(50, 350*math.Exp(-float64(gamesPlayed)/20)+2*daysSinceLastGame)
}

// Handicap is an advisory point adjustment for an uneven matchup.
type Handicap struct {
	StrongerTeam int     `json:"stronger_team"`
	Points       int     `json:"points"`
	RatingGap    float64 `json:"rating_gap"`
}

// SuggestHandicap returns nil when the teams are within 100 points or any
// rating is not finite.
func SuggestHandicap(team1, team2 []float64) *Handicap {
	if Validate(team1...) != nil || Validate(team2...) != nil {
		return nil
	}
	avg1, avg2 := TeamRating(team1), TeamRating(team2)
	diff := math.Abs(avg1 - avg2)
	if diff < handicapStep {
		return nil
	}
	stronger := 1
	if avg2 > avg1 {
		stronger = 2
	}
	return &Handicap{
		StrongerTeam: stronger,
		Points:       int(math.Floor(diff / handicapStep)),
		RatingGap:    Round2(diff),
	}
}
