package rating

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	for _, a := range []float64{100, 850.5, 1500, 2999} {
		assert.Equal(t, 0.5, ExpectedScore(a, a), "a=%v", a)
	}
	assert.InDelta(t, 0.030653, ExpectedScore(1200, 1800), 1e-6)
	assert.InDelta(t, 1.0, ExpectedScore(1800, 1200)+ExpectedScore(1200, 1800), 1e-12)
}

func TestNewRatingScenarios(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		opponent float64
		won      bool
		want     float64
	}{
		{name: "even win", current: 1500, opponent: 1500, won: true, want: 1516.00},
		{name: "even loss", current: 1500, opponent: 1500, won: false, want: 1484.00},
		{name: "upset win", current: 1200, opponent: 1800, won: true, want: 1231.02},
		{name: "expected loss", current: 1200, opponent: 1800, won: false, want: 1199.02},
		{name: "floor", current: 100, opponent: 100, won: false, want: 100},
		{name: "ceiling", current: 3000, opponent: 3000, won: true, want: 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRating(tt.current, tt.opponent, tt.won, DefaultK))
		})
	}
}

func TestNewRatingDirectionAndBounds(t *testing.T) {
	ratings := []float64{100, 101.5, 640, 1200, 1500, 1999.99, 2600, 3000}
	ks := []float64{1, 24, 32, 40, 400}
	for _, r := range ratings {
		for _, o := range ratings {
			for _, k := range ks {
				win := NewRating(r, o, true, k)
				loss := NewRating(r, o, false, k)
				assert.GreaterOrEqual(t, win, r)
				assert.LessOrEqual(t, loss, r)
				assert.True(t, InRange(win), "win %v out of range", win)
				assert.True(t, InRange(loss), "loss %v out of range", loss)
			}
		}
	}
}

func TestNewRatingNonFinite(t *testing.T) {
	assert.Equal(t, DefaultRating, NewRating(math.NaN(), 1500, true, DefaultK))
	assert.Equal(t, 1400.0, NewRating(1400, math.Inf(1), true, DefaultK))
	assert.Equal(t, 1400.0, NewRating(1400, 1500, true, math.NaN()))
	require.ErrorIs(t, Validate(1, math.Inf(-1)), ErrNonFinite)
	require.NoError(t, Validate(1, 2, 3))
}

func TestNonFiniteInputs(t *testing.T) {
	nan, inf, ninf := math.NaN(), math.Inf(1), math.Inf(-1)
	for _, bad := range []float64{nan, inf, ninf} {
		t.Run(fmt.Sprint(bad), func(t *testing.T) {
			assert.Equal(t, 0.5, ExpectedScore(bad, 1500))
			assert.Equal(t, 0.5, ExpectedScore(1500, bad))

			assert.Equal(t, DefaultRating, NewRating(bad, 1500, true, DefaultK))
			assert.Equal(t, 1400.0, NewRating(1400, bad, false, DefaultK))
			assert.Equal(t, 1400.0, NewRating(1400, 1500, true, bad))

			assert.Equal(t, 1500.0, TeamRating([]float64{bad, 1500}))
			assert.Equal(t, DefaultRating, TeamRating([]float64{bad}))

			d1, d2 := GameRatingChanges([]float64{bad, 1500}, []float64{1500}, true, DefaultK)
			assert.Equal(t, []float64{0, 16}, d1)
			assert.Equal(t, []float64{-16}, d2)
			d1, d2 = GameRatingChanges([]float64{1500}, []float64{1500}, true, bad)
			assert.Equal(t, []float64{0}, d1)
			assert.Equal(t, []float64{0}, d2)

			assert.Equal(t, 0.0, MatchQuality([]float64{bad}, []float64{1500}))
			assert.Equal(t, 0.0, MatchQuality([]float64{1500}, []float64{1500, bad}))

			assert.Nil(t, SuggestHandicap([]float64{bad}, []float64{1500}))
			assert.Nil(t, SuggestHandicap([]float64{1500}, []float64{bad}))

			assert.Equal(t, RatingDeviation(10, 0), RatingDeviation(10, bad))
			assert.ErrorIs(t, Validate(1500, bad), ErrNonFinite)
			assert.False(t, InRange(bad))
		})
	}
}

func TestKFactor(t *testing.T) {
	assert.Equal(t, 40.0, KFactor(0))
	assert.Equal(t, 40.0, KFactor(9))
	assert.Equal(t, 32.0, KFactor(10))
	assert.Equal(t, 32.0, KFactor(29))
	assert.Equal(t, 24.0, KFactor(30))
	assert.Equal(t, 24.0, KFactor(500))
}

func TestTeamRating(t *testing.T) {
	assert.Equal(t, DefaultRating, TeamRating(nil))
	assert.Equal(t, 1400.0, TeamRating([]float64{1300, 1500}))
}

func TestGameRatingChangesPerPlayer(t *testing.T) {
	team1 := []float64{1400, 1600}
	team2 := []float64{1500, 1500}

	d1, d2 := GameRatingChanges(team1, team2, true, DefaultK)
	require.Len(t, d1, 2)
	require.Len(t, d2, 2)

	// Each player is measured against the opposing average, not their own
	// team's average, so teammates move by different amounts.
	assert.Equal(t, Round2(NewRating(1400, 1500, true, DefaultK)-1400), d1[0])
	assert.Equal(t, Round2(NewRating(1600, 1500, true, DefaultK)-1600), d1[1])
	assert.Greater(t, d1[0], d1[1])
	for _, d := range d1 {
		assert.Greater(t, d, 0.0)
	}
	for _, d := range d2 {
		assert.Equal(t, -16.0, d)
	}
}

func TestMatchQuality(t *testing.T) {
	assert.Equal(t, 1.0, MatchQuality([]float64{1500}, []float64{1500}))
	even := MatchQuality([]float64{1500}, []float64{1550})
	lopsided := MatchQuality([]float64{1500}, []float64{2500})
	assert.Greater(t, even, lopsided)
	assert.Less(t, lopsided, 0.01)
	assert.InDelta(t, MatchQuality([]float64{1200}, []float64{1800}), MatchQuality([]float64{1800}, []float64{1200}), 1e-12)
	assert.Equal(t, 1.0, MatchQuality(nil, nil))
}

func TestConfidenceAndDeviation(t *testing.T) {
	assert.Equal(t, 0.0, RatingConfidence(0))
	assert.InDelta(t, 1-math.Exp(-1), RatingConfidence(15), 1e-12)
	assert.Equal(t, 0.95, RatingConfidence(1000))

	assert.Equal(t, 350.0, RatingDeviation(0, 0))
	assert.Equal(t, 50.0, RatingDeviation(500, 0))
	assert.InDelta(t, 70.0, RatingDeviation(500, 35), 1e-6)
	assert.Greater(t, RatingDeviation(10, 30), RatingDeviation(10, 0))
}

func TestSuggestHandicap(t *testing.T) {
	assert.Nil(t, SuggestHandicap([]float64{1500}, []float64{1599.99}))

	h := SuggestHandicap([]float64{1500, 1500}, []float64{1800, 1850})
	require.NotNil(t, h)
	assert.Equal(t, 2, h.StrongerTeam)
	assert.Equal(t, 3, h.Points)
	assert.Equal(t, 325.0, h.RatingGap)

	h = SuggestHandicap([]float64{1700}, []float64{1600})
	require.NotNil(t, h)
	assert.Equal(t, 1, h.StrongerTeam)
	assert.Equal(t, 1, h.Points)
}
