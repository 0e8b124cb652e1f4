package waitlist

import (
	"net/http"
	"strconv"

	mw "github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/DhavalSuthar-24/rally/pkg/responses"
	"github.com/gin-gonic/gin"
)

// WaitlistController handles waitlist HTTP requests
type WaitlistController struct {
	service *Service
}

// NewWaitlistController creates a new waitlist controller
func NewWaitlistController(service *Service) *WaitlistController {
	return &WaitlistController{service: service}
}

// JoinWaitlistRequest optionally narrows the entry to a division
type JoinWaitlistRequest struct {
	EventSubID *uint `json:"event_sub_id,omitempty"`
}

// eventParams reads :event_type and :event_id.
func eventParams(c *gin.Context) (EventType, uint, bool) {
	eventType := EventType(c.Param("event_type"))
	if !eventType.Valid() {
		responses.BadRequest(c, "Invalid event type")
		return "", 0, false
	}
	eventID, err := strconv.ParseUint(c.Param("event_id"), 10, 32)
	if err != nil || eventID == 0 {
		responses.BadRequest(c, "Invalid event ID")
		return "", 0, false
	}
	return eventType, uint(eventID), true
}

// JoinWaitlist godoc
// @Summary Join an event's waitlist
// @Description Queues the caller for a full tournament or league.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Param join body JoinWaitlistRequest false "Division"
// @Success 201 {object} responses.SuccessResponse{data=Position} "Queued"
// @Failure 409 {object} responses.ErrorResponse "Already on the waitlist"
// @Failure 422 {object} responses.ErrorResponse "Event has open spots"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id} [post]
func (wc *WaitlistController) JoinWaitlist(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	var req JoinWaitlistRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.SendValidationError(c, err)
			return
		}
	}

	pos, err := wc.service.AddToWaitlist(c.Request.Context(), userID, eventType, eventID, req.EventSubID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Added to waitlist", pos)
}

// GetPosition godoc
// @Summary My waitlist position
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Position} "Position, or null data when not waitlisted"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/position [get]
func (wc *WaitlistController) GetPosition(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	pos, err := wc.service.GetWaitlistPosition(c.Request.Context(), userID, eventType, eventID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	if pos == nil {
		responses.SendSuccess(c, http.StatusOK, "Not on the waitlist", nil)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", pos)
}

// AcceptSpot godoc
// @Summary Accept an offered spot
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Entry} "Registered"
// @Failure 404 {object} responses.ErrorResponse "Not on the waitlist"
// @Failure 422 {object} responses.ErrorResponse "No live offer"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/accept [post]
func (wc *WaitlistController) AcceptSpot(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	entry, err := wc.service.AcceptWaitlistSpot(c.Request.Context(), userID, eventType, eventID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Spot accepted", entry)
}

// DeclineSpot godoc
// @Summary Decline an offered spot
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Entry} "Declined"
// @Failure 404 {object} responses.ErrorResponse "Not on the waitlist"
// @Failure 422 {object} responses.ErrorResponse "No live offer"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/decline [post]
func (wc *WaitlistController) DeclineSpot(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	entry, err := wc.service.DeclineWaitlistSpot(c.Request.Context(), userID, eventType, eventID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Spot declined", entry)
}

// LeaveWaitlist godoc
// @Summary Leave an event's waitlist
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse "Left the waitlist"
// @Failure 404 {object} responses.ErrorResponse "Not on the waitlist"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id} [delete]
func (wc *WaitlistController) LeaveWaitlist(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	if err := wc.service.Leave(c.Request.Context(), userID, eventType, eventID); err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Left the waitlist", nil)
}

// ListEntries godoc
// @Summary List an event's waitlist
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Param status query string false "Filter by status"
// @Success 200 {object} responses.SuccessResponse{data=[]Entry} "Entries in queue order"
// @Failure 403 {object} responses.ErrorResponse "Organizers only"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/entries [get]
func (wc *WaitlistController) ListEntries(c *gin.Context) {
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}
	entries, err := wc.service.ListEntries(c.Request.Context(), eventType, eventID, EntryStatus(c.Query("status")))
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", entries)
}

// ProcessWaitlist godoc
// @Summary Offer the next free spot
// @Description Offers a free seat to the earliest waiting user, if any.
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Entry} "Offered entry, or null data"
// @Failure 403 {object} responses.ErrorResponse "Organizers only"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/process [post]
func (wc *WaitlistController) ProcessWaitlist(c *gin.Context) {
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}
	entry, err := wc.service.ProcessWaitlist(c.Request.Context(), eventType, eventID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	if entry == nil {
		responses.SendSuccess(c, http.StatusOK, "No spot to offer", nil)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Spot offered", entry)
}

// Register godoc
// @Summary Register for an event
// @Description Takes a free seat directly. Fails while the event is full or others are waitlisted.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Param join body JoinWaitlistRequest false "Division"
// @Success 201 {object} responses.SuccessResponse{data=Registration} "Registered"
// @Failure 409 {object} responses.ErrorResponse "Already registered"
// @Failure 422 {object} responses.ErrorResponse "Event is full"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/registration [post]
func (wc *WaitlistController) Register(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	var req JoinWaitlistRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.SendValidationError(c, err)
			return
		}
	}

	reg, err := wc.service.Register(c.Request.Context(), userID, eventType, eventID, req.EventSubID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Registered", reg)
}

// Withdraw godoc
// @Summary Withdraw a registration
// @Description Releases the caller's seat and offers it to the next waitlisted user.
// @Tags Waitlist
// @Produce json
// @Param event_type path string true "tournament or league"
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Entry} "Entry offered the seat, or null data"
// @Failure 404 {object} responses.ErrorResponse "Not registered"
// @Security ApiKeyAuth
// @Router /waitlist/{event_type}/{event_id}/registration [delete]
func (wc *WaitlistController) Withdraw(c *gin.Context) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	eventType, eventID, ok := eventParams(c)
	if !ok {
		return
	}

	offered, err := wc.service.Withdraw(c.Request.Context(), userID, eventType, eventID)
	if err != nil {
		responses.FromError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Registration withdrawn", offered)
}
