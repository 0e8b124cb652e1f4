package game

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type GameFormat string

const (
	FormatSingles GameFormat = "singles"
	FormatDoubles GameFormat = "doubles"
	FormatMixed   GameFormat = "mixed"
)

// TeamSize is the most players one side may field.
func (f GameFormat) TeamSize() int {
	if f == FormatSingles {
		return 1
	}
	return 2
}

func (f GameFormat) Valid() bool {
	switch f {
	case FormatSingles, FormatDoubles, FormatMixed:
		return true
	}
	return false
}

type GameType string

const (
	TypeCasual      GameType = "casual"
	TypeCompetitive GameType = "competitive"
	TypeTournament  GameType = "tournament"
	TypeLeague      GameType = "league"
)

func (t GameType) Valid() bool {
	switch t {
	case TypeCasual, TypeCompetitive, TypeTournament, TypeLeague:
		return true
	}
	return false
}

type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
	StatusCancelled  GameStatus = "cancelled"
)

// Open reports whether the game can still be scored or joined.
func (s GameStatus) Open() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// SetScore is one set's points.
type SetScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// SetScores is stored as a JSONB array.
type SetScores []SetScore

func (s SetScores) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *SetScores) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("SetScores: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// Game is one match between two teams. WinningTeam is set only once the
// game is completed.
type Game struct {
	gorm.Model
	GameFormat      GameFormat `json:"game_format" gorm:"index;not null"`
	GameType        GameType   `json:"game_type" gorm:"not null;default:'casual'"`
	CourtID         *uint      `json:"court_id,omitempty" gorm:"index"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Status          GameStatus `json:"status" gorm:"index;not null"`
	IsRated         bool       `json:"is_rated" gorm:"not null"`
	CreatedByUserID uint       `json:"created_by_user_id" gorm:"index;not null"`

	Scores         SetScores  `json:"scores" gorm:"type:jsonb"`
	Team1Score     *int       `json:"team1_score,omitempty"`
	Team2Score     *int       `json:"team2_score,omitempty"`
	WinningTeam    *int       `json:"winning_team,omitempty"`
	ScoredByUserID *uint      `json:"scored_by_user_id,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	RatingsApplied bool       `json:"ratings_applied" gorm:"not null;default:false"`

	// A disputed game is cancelled and keeps the dispute details.
	DisputeReason    string     `json:"dispute_reason,omitempty" gorm:"type:text"`
	DisputedByUserID *uint      `json:"disputed_by_user_id,omitempty"`
	DisputedAt       *time.Time `json:"disputed_at,omitempty"`

	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:GameID"`
}

// Participant links a user to a game. RatingAtGame is the snapshot taken
// when the row was inserted and is never updated.
type Participant struct {
	gorm.Model
	GameID       uint       `json:"game_id" gorm:"not null;uniqueIndex:idx_game_participant"`
	UserID       uint       `json:"user_id" gorm:"not null;index;uniqueIndex:idx_game_participant"`
	Team         int        `json:"team" gorm:"not null"`
	RatingAtGame float64    `json:"rating_at_game" gorm:"type:numeric(7,2);not null"`
	RatingChange *float64   `json:"rating_change,omitempty" gorm:"type:numeric(7,2)"`
	IsConfirmed  bool       `json:"is_confirmed" gorm:"not null;default:false"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
}

func (Participant) TableName() string {
	return "game_participants"
}

// TeamRatings splits participant snapshots by team.
func TeamRatings(parts []Participant) (team1, team2 []float64) {
	for _, p := range parts {
		switch p.Team {
		case 1:
			team1 = append(team1, p.RatingAtGame)
		case 2:
			team2 = append(team2, p.RatingAtGame)
		}
	}
	return team1, team2
}

func findParticipant(parts []Participant, userID uint) *Participant {
	for i := range parts {
		if parts[i].UserID == userID {
			return &parts[i]
		}
	}
	return nil
}

func userIDs(parts []Participant) []uint {
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.UserID)
	}
	return ids
}
