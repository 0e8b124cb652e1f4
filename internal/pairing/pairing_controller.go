package pairing

import (
	"net/http"
	"strconv"

	"github.com/DhavalSuthar-24/rally/internal/game"
	mw "github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/DhavalSuthar-24/rally/pkg/responses"
	"github.com/gin-gonic/gin"
)

// PairingController handles matchmaking HTTP requests
type PairingController struct {
	service *Service
}

// NewPairingController creates a new pairing controller
func NewPairingController(service *Service) *PairingController {
	return &PairingController{service: service}
}

// CreateMatchRequest defines the request payload for opening a match request
type CreateMatchRequest struct {
	GameType       game.GameType   `json:"game_type" binding:"omitempty,oneof=casual competitive tournament league"`
	GameFormat     game.GameFormat `json:"game_format" binding:"omitempty,oneof=singles doubles mixed"`
	MinSkill       *float64        `json:"min_skill,omitempty"`
	MaxSkill       *float64        `json:"max_skill,omitempty"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	MaxDistanceKm  *float64        `json:"max_distance_km,omitempty"`
	ExpiresInHours int             `json:"expires_in_hours" binding:"omitempty,min=1,max=168"`
}

// AcceptMatchRequest names the two requests to pair
type AcceptMatchRequest struct {
	RequestID        uint `json:"request_id" binding:"required"`
	MatchedRequestID uint `json:"matched_request_id" binding:"required"`
}

// CreateRequest godoc
// @Summary Open a match request
// @Description Opens the caller's match request. At most one may be pending per user.
// @Tags Matchmaking
// @Accept json
// @Produce json
// @Param request body CreateMatchRequest true "Match request"
// @Success 201 {object} responses.SuccessResponse{data=MatchRequest} "Request created"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 409 {object} responses.ErrorResponse "A pending request already exists"
// @Security ApiKeyAuth
// @Router /matchmaking/requests [post]
func (pc *PairingController) CreateRequest(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	created, err := pc.service.CreateRequest(c.Request.Context(), CreateRequestInput{
		UserID:         userID,
		GameType:       req.GameType,
		GameFormat:     req.GameFormat,
		MinSkill:       req.MinSkill,
		MaxSkill:       req.MaxSkill,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		MaxDistanceKm:  req.MaxDistanceKm,
		ExpiresInHours: req.ExpiresInHours,
	})
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match request created", created)
}

// GetMyRequest godoc
// @Summary Get my match request
// @Tags Matchmaking
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=MatchRequest} "Pending request"
// @Failure 404 {object} responses.ErrorResponse "No pending request"
// @Security ApiKeyAuth
// @Router /matchmaking/requests/me [get]
func (pc *PairingController) GetMyRequest(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	req, err := pc.service.GetMyRequest(c.Request.Context(), userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", req)
}

// GetSuggestions godoc
// @Summary Suggested opponents
// @Description Ranks compatible pending requests by skill closeness and distance.
// @Tags Matchmaking
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Suggestion} "Ranked suggestions"
// @Failure 404 {object} responses.ErrorResponse "No pending request"
// @Security ApiKeyAuth
// @Router /matchmaking/suggestions [get]
func (pc *PairingController) GetSuggestions(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	suggestions, err := pc.service.GetSuggestions(c.Request.Context(), userID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", suggestions)
}

// AcceptMatch godoc
// @Summary Accept a match
// @Description Pairs two pending requests and creates their game.
// @Tags Matchmaking
// @Accept json
// @Produce json
// @Param accept body AcceptMatchRequest true "Requests to pair"
// @Success 201 {object} responses.SuccessResponse{data=AcceptResult} "Game created"
// @Failure 404 {object} responses.ErrorResponse "Request not found"
// @Failure 409 {object} responses.ErrorResponse "Request already matched"
// @Failure 422 {object} responses.ErrorResponse "Request not pending"
// @Security ApiKeyAuth
// @Router /matchmaking/accept [post]
func (pc *PairingController) AcceptMatch(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	var req AcceptMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	res, err := pc.service.AcceptMatch(c.Request.Context(), userID, req.RequestID, req.MatchedRequestID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Match accepted", res)
}

// CancelRequest godoc
// @Summary Cancel a match request
// @Tags Matchmaking
// @Produce json
// @Param request_id path uint true "Request ID"
// @Success 200 {object} responses.SuccessResponse "Request cancelled"
// @Failure 404 {object} responses.ErrorResponse "Pending request not found"
// @Security ApiKeyAuth
// @Router /matchmaking/requests/{request_id} [delete]
func (pc *PairingController) CancelRequest(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid request ID")
		return
	}

	if err := pc.service.Cancel(c.Request.Context(), uint(requestID), userID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match request cancelled", nil)
}
