package pairing

import (
	"math"
	"sort"

	"github.com/DhavalSuthar-24/rally/internal/rating"
)

const (
	earthRadiusKm = 6371.0

	qualityWeight    = 0.7
	proximityWeight  = 0.3
	neutralProximity = 0.5
)

// proximityHalfKm is the distance at which proximity drops to 0.5.
const proximityHalfKm = 10.0

// HaversineKm is the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Proximity maps a distance to (0, 1], strictly decreasing in distance.
func Proximity(distanceKm float64) float64 {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		return neutralProximity
	}
	return 1 / (1 + distanceKm/proximityHalfKm)
}

// CompositeScore blends skill closeness with proximity. A nil distance
// means at least one side has no location.
func CompositeScore(mine, theirs float64, distanceKm *float64) float64 {
	quality := rating.MatchQuality([]float64{mine}, []float64{theirs})
	proximity := neutralProximity
	if distanceKm != nil {
		proximity = Proximity(*distanceKm)
	}
	return qualityWeight*quality + proximityWeight*proximity
}

// Suggestion is one ranked candidate.
type Suggestion struct {
	Request      MatchRequest `json:"request"`
	Rating       float64      `json:"rating"`
	MatchQuality float64      `json:"match_quality"`
	DistanceKm   *float64     `json:"distance_km,omitempty"`
	Score        float64      `json:"score"`
}

// rank orders suggestions by score, then older request, then lower id.
func rank(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		if !s[i].Request.CreatedAt.Equal(s[j].Request.CreatedAt) {
			return s[i].Request.CreatedAt.Before(s[j].Request.CreatedAt)
		}
		return s[i].Request.ID < s[j].Request.ID
	})
}

// distanceLimit is the tighter of the two declared max distances, or nil
// when neither side declared one.
func distanceLimit(a, b *MatchRequest) *float64 {
	switch {
	case a.MaxDistanceKm == nil:
		return b.MaxDistanceKm
	case b.MaxDistanceKm == nil:
		return a.MaxDistanceKm
	}
	limit := math.Min(*a.MaxDistanceKm, *b.MaxDistanceKm)
	return &limit
}
