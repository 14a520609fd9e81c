package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastellanos/roadmapr-backend/internal/middleware"
	"github.com/ncastellanos/roadmapr-backend/internal/services"
	"github.com/ncastellanos/roadmapr-backend/internal/validation"
)

type RoadmapHandler struct {
	roadmapService services.RoadmapService
}

func NewRoadmapHandler(roadmapService services.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService}
}

func (rh *RoadmapHandler) Create(c *gin.Context) {
	var req struct {
		validation.RoadmapDocument
		IsPublic bool `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := rh.roadmapService.Create(c.Request.Context(), middleware.UserID(c), &req.RoadmapDocument, req.IsPublic)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, result)
}

func (rh *RoadmapHandler) ListPublic(c *gin.Context) {
	roadmaps, err := rh.roadmapService.ListPublic(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmaps": roadmaps})
}

func (rh *RoadmapHandler) ListMine(c *gin.Context) {
	roadmaps, err := rh.roadmapService.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmaps": roadmaps})
}

// Get applies the visibility rules: public roadmaps are readable by anyone,
// private ones only by their owner. The viewer may be anonymous here.
func (rh *RoadmapHandler) Get(c *gin.Context) {
	roadmap, err := rh.roadmapService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": roadmap})
}

func (rh *RoadmapHandler) Save(c *gin.Context) {
	roadmap, err := rh.roadmapService.Save(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, gin.H{"roadmap": roadmap})
}
