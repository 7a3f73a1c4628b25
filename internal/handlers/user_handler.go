package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillpath/user-service/internal/events"
	"github.com/skillpath/user-service/internal/services"
	"github.com/skillpath/user-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService    services.UserService
	metricsService services.MetricsService
	stream         *events.GoChannelPubSub
}

func NewUserHandler(userService services.UserService, metricsService services.MetricsService, stream *events.GoChannelPubSub, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:    NewBaseHandler(logger),
		userService:    userService,
		metricsService: metricsService,
		stream:         stream,
	}
}

// UpdateProfile updates account fields
// @Summary Update profile
// @Description Partially updates username, email and/or password
// @Tags users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param profile body services.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.PublicUser
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.authorizeSelfOrAdmin(c, id) {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating profile", "user_id", id)

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateRoadmap replaces the stored roadmap document
// @Summary Update roadmap
// @Description Replaces the user's roadmap document wholesale
// @Tags users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param roadmap body services.UpdateRoadmapRequest true "Roadmap document"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/roadmap [put]
func (h *UserHandler) UpdateRoadmap(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	if !h.authorizeSelfOrAdmin(c, id) {
		return
	}

	var req services.UpdateRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Replacing roadmap", "user_id", id)

	if _, err := h.userService.UpdateRoadmap(c.Request.Context(), id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Roadmap updated successfully"})
}

// CompleteRoadmapNode completes the active roadmap node
// @Summary Complete roadmap node
// @Description Marks the active node completed and activates its successor
// @Tags users
// @Produce json
// @Param nodeId path string true "Node ID"
// @Success 200 {object} roadmap.Roadmap
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/roadmap/nodes/{nodeId}/complete [post]
func (h *UserHandler) CompleteRoadmapNode(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	nodeID := c.Param("nodeId")
	if nodeID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid nodeId parameter"})
		return
	}

	h.LogRequest(c, "Completing roadmap node", "user_id", userID, "node_id", nodeID)

	rm, err := h.userService.CompleteRoadmapNode(c.Request.Context(), userID, nodeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rm)
}

// CompleteActivity records one completed learning activity
// @Summary Complete activity
// @Description Awards XP and streak and pushes the new pair to the user's metrics stream
// @Tags users
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/complete-activity [post]
func (h *UserHandler) CompleteActivity(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Completing activity", "user_id", userID)

	if _, err := h.metricsService.CompleteActivity(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Activity completed"})
}

// StreamMetrics streams metrics updates over SSE
// @Summary Stream metrics
// @Description Server-sent events stream of the caller's XP and streak updates
// @Tags users
// @Produce text/event-stream
// @Success 200
// @Router /users/me/metrics/stream [get]
func (h *UserHandler) StreamMetrics(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	messages, err := h.stream.Subscribe(ctx, events.UserMetricsTopic(userID))
	if err != nil {
		h.LogError(c, err, "Failed to subscribe to metrics stream", "user_id", userID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to open metrics stream"})
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Late subscribers missed earlier pushes, so open with the current pair,
	// wrapped in the same envelope the published events use.
	if counters, ok := h.metricsService.CurrentMetrics(userID); ok {
		c.SSEvent("metrics", events.NewEvent(events.TypeMetricsUpdated, events.MetricsPayload{
			XP:     counters.XP,
			Streak: counters.Streak,
		}))
		c.Writer.Flush()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, open := <-messages:
			if !open {
				return false
			}
			msg.Ack()
			c.SSEvent("metrics", json.RawMessage(msg.Payload))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// authorizeSelfOrAdmin rejects requests targeting another user's record
// unless the caller is an admin.
func (h *BaseHandler) authorizeSelfOrAdmin(c *gin.Context, targetID uint) bool {
	userID, ok := authenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return false
	}
	if userID != targetID && !isAdmin(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
		return false
	}
	return true
}
