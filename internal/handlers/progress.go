package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/middleware"
	"github.com/ncastellanos/roadmapr-backend/internal/services"
)

var errMissingProgressQuery = errors.New("roadmapId and topicId query parameters are required")

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Toggle flips one subtopic's completion state and returns the updated record,
// recomputed topic stats, and any badges the change unlocked.
func (ph *ProgressHandler) Toggle(c *gin.Context) {
	var req struct {
		RoadmapID     string `json:"roadmapId" binding:"required"`
		TopicID       string `json:"topicId" binding:"required"`
		SubtopicIndex *int   `json:"subtopicIndex" binding:"required"`
		IsCompleted   bool   `json:"isCompleted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ph.progressService.ToggleSubtopic(
		c.Request.Context(),
		middleware.UserID(c),
		req.RoadmapID,
		req.TopicID,
		*req.SubtopicIndex,
		req.IsCompleted,
	)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ph *ProgressHandler) GetTopic(c *gin.Context) {
	roadmapID := c.Query("roadmapId")
	topicID := c.Query("topicId")
	if roadmapID == "" || topicID == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errMissingProgressQuery)
		return
	}
	result, err := ph.progressService.GetTopicProgress(c.Request.Context(), middleware.UserID(c), roadmapID, topicID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ph *ProgressHandler) GetRoadmap(c *gin.Context) {
	result, err := ph.progressService.GetRoadmapProgress(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}
