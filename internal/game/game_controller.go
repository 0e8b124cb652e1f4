package game

import (
	"net/http"
	"strconv"
	"time"

	mw "github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/DhavalSuthar-24/rally/pkg/responses"
	"github.com/gin-gonic/gin"
)

// GameController handles game-related HTTP requests
type GameController struct {
	service *Service
}

// NewGameController creates a new game controller
func NewGameController(service *Service) *GameController {
	return &GameController{service: service}
}

// --- DTOs for requests ---

// CreateGameRequest defines the request payload for creating a game
type CreateGameRequest struct {
	GameFormat  GameFormat `json:"game_format" binding:"omitempty,oneof=singles doubles mixed"`
	GameType    GameType   `json:"game_type" binding:"omitempty,oneof=casual competitive tournament league"`
	CourtID     *uint      `json:"court_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	IsRated     *bool      `json:"is_rated,omitempty"`
	Team1       []uint     `json:"team1" binding:"required,min=1,max=2"`
	Team2       []uint     `json:"team2" binding:"required,min=1,max=2"`
}

// RecordScoreRequest defines the final score of a game
type RecordScoreRequest struct {
	Team1Score *int       `json:"team1_score" binding:"required,gte=0"`
	Team2Score *int       `json:"team2_score" binding:"required,gte=0"`
	Sets       []SetScore `json:"sets,omitempty"`
}

// DisputeRequest carries the reason for a dispute
type DisputeRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=1000"`
}

// JoinGameRequest picks the team to join
type JoinGameRequest struct {
	Team int `json:"team" binding:"required,oneof=1 2"`
}

// PreviewRequest describes a prospective matchup
type PreviewRequest struct {
	GameFormat GameFormat `json:"game_format" binding:"omitempty,oneof=singles doubles mixed"`
	Team1      []uint     `json:"team1" binding:"required,min=1,max=2"`
	Team2      []uint     `json:"team2" binding:"required,min=1,max=2"`
}

func currentUser(c *gin.Context) (uint, bool) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return 0, false
	}
	return userID, true
}

func gameIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("game_id"), 10, 32)
	if err != nil || id == 0 {
		responses.BadRequest(c, "Invalid game ID")
		return 0, false
	}
	return uint(id), true
}

// CreateGame godoc
// @Summary Create a game
// @Description Creates a game with two teams. The creator is confirmed; everyone else is invited.
// @Tags Games
// @Accept json
// @Produce json
// @Param game body CreateGameRequest true "Game Creation Data"
// @Success 201 {object} responses.SuccessResponse{data=Game} "Game created successfully"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 409 {object} responses.ErrorResponse "Duplicate participant"
// @Security ApiKeyAuth
// @Router /games [post]
func (gc *GameController) CreateGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	in := CreateInput{
		GameFormat:  req.GameFormat,
		GameType:    req.GameType,
		CourtID:     req.CourtID,
		ScheduledAt: req.ScheduledAt,
		IsRated:     true,
		Team1:       req.Team1,
		Team2:       req.Team2,
		CreatedBy:   userID,
	}
	if req.IsRated != nil {
		in.IsRated = *req.IsRated
	}

	game, err := gc.service.Create(c.Request.Context(), in)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Game created successfully", game)
}

// GetGame godoc
// @Summary Get a game
// @Description Returns a game with its participants.
// @Tags Games
// @Produce json
// @Param game_id path uint true "Game ID"
// @Success 200 {object} responses.SuccessResponse{data=Game} "Game details"
// @Failure 404 {object} responses.ErrorResponse "Game not found"
// @Security ApiKeyAuth
// @Router /games/{game_id} [get]
func (gc *GameController) GetGame(c *gin.Context) {
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}
	game, err := gc.service.Get(c.Request.Context(), gameID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Game retrieved successfully", game)
}

// GetMyGames godoc
// @Summary List my games
// @Description Returns the authenticated user's games, newest first.
// @Tags Games
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 10, max: 100)"
// @Success 200 {object} responses.PaginatedResponse{data=[]Game} "Games"
// @Security ApiKeyAuth
// @Router /users/me/games [get]
func (gc *GameController) GetMyGames(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	games, total, err := gc.service.ListForUser(c.Request.Context(), userID, GameStatus(c.Query("status")), page, pageSize)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "", games, total, page, pageSize)
}

// RecordScore godoc
// @Summary Record the final score
// @Description Completes the game. Rated games update every participant's rating.
// @Tags Games
// @Accept json
// @Produce json
// @Param game_id path uint true "Game ID"
// @Param score body RecordScoreRequest true "Final score"
// @Success 200 {object} responses.SuccessResponse{data=Game} "Score recorded"
// @Failure 400 {object} responses.ErrorResponse "Invalid score"
// @Failure 404 {object} responses.ErrorResponse "Game or participant not found"
// @Failure 422 {object} responses.ErrorResponse "Game is not open"
// @Security ApiKeyAuth
// @Router /games/{game_id}/score [post]
func (gc *GameController) RecordScore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	var req RecordScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	game, err := gc.service.RecordScore(c.Request.Context(), gameID, ScoreInput{
		Team1Score: *req.Team1Score,
		Team2Score: *req.Team2Score,
		Sets:       req.Sets,
	}, userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Score recorded successfully", game)
}

// VerifyGame godoc
// @Summary Verify a game
// @Description Confirms the caller's participation. Repeat calls are a no-op.
// @Tags Games
// @Produce json
// @Param game_id path uint true "Game ID"
// @Success 200 {object} responses.SuccessResponse{data=VerifyResult} "Verification state"
// @Failure 404 {object} responses.ErrorResponse "Game or participant not found"
// @Failure 422 {object} responses.ErrorResponse "Game is cancelled"
// @Security ApiKeyAuth
// @Router /games/{game_id}/verify [post]
func (gc *GameController) VerifyGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	res, err := gc.service.Verify(c.Request.Context(), gameID, userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	msg := "Game verified"
	if res.AlreadyConfirmed {
		msg = "Already verified"
	}
	responses.SendSuccess(c, http.StatusOK, msg, res)
}

// DisputeGame godoc
// @Summary Dispute a game
// @Description Cancels the game and notifies every participant.
// @Tags Games
// @Accept json
// @Produce json
// @Param game_id path uint true "Game ID"
// @Param dispute body DisputeRequest true "Dispute reason"
// @Success 200 {object} responses.SuccessResponse{data=Game} "Game disputed"
// @Failure 404 {object} responses.ErrorResponse "Game or participant not found"
// @Failure 422 {object} responses.ErrorResponse "Game already cancelled"
// @Security ApiKeyAuth
// @Router /games/{game_id}/dispute [post]
func (gc *GameController) DisputeGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	var req DisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	game, err := gc.service.Dispute(c.Request.Context(), gameID, userID, req.Reason)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Game disputed", game)
}

// JoinGame godoc
// @Summary Join a game
// @Description Adds the caller to an open game on the chosen team.
// @Tags Games
// @Accept json
// @Produce json
// @Param game_id path uint true "Game ID"
// @Param join body JoinGameRequest true "Team"
// @Success 201 {object} responses.SuccessResponse{data=Participant} "Joined"
// @Failure 409 {object} responses.ErrorResponse "Already in game"
// @Failure 422 {object} responses.ErrorResponse "Game closed or team full"
// @Security ApiKeyAuth
// @Router /games/{game_id}/join [post]
func (gc *GameController) JoinGame(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	gameID, ok := gameIDParam(c)
	if !ok {
		return
	}

	var req JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	p, err := gc.service.JoinGame(c.Request.Context(), gameID, userID, req.Team)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Joined game", p)
}

// PreviewGame godoc
// @Summary Preview a matchup
// @Description Reports win probability, match quality and a handicap suggestion for two prospective teams.
// @Tags Games
// @Accept json
// @Produce json
// @Param preview body PreviewRequest true "Teams"
// @Success 200 {object} responses.SuccessResponse{data=Preview} "Preview"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Security ApiKeyAuth
// @Router /games/preview [post]
func (gc *GameController) PreviewGame(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	preview, err := gc.service.Preview(c.Request.Context(), req.GameFormat, req.Team1, req.Team2)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", preview)
}
