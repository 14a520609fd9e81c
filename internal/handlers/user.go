package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/middleware"
	"github.com/ncastellanos/roadmapr-backend/internal/services"
)

type UserHandler struct {
	statsService services.StatsService
}

func NewUserHandler(statsService services.StatsService) *UserHandler {
	return &UserHandler{statsService: statsService}
}

// GetStats recomputes the caller's roadmap counters and learning velocity
// before returning them, so the figures reflect current progress rather than
// the last write.
func (uh *UserHandler) GetStats(c *gin.Context) {
	stats, err := uh.statsService.GetUserStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"statistics": stats})
}

func (uh *UserHandler) GetAchievements(c *gin.Context) {
	result, err := uh.statsService.GetAchievements(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, result)
}
