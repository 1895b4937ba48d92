package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain/dto"
	"github.com/ma6di/jobtrackr/internal/service"
)

type ApplicationHandler struct {
	appService service.ApplicationService
}

func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// CreateApplication handles POST /api/v1/applications.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	app, err := h.appService.CreateApplication(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// ListApplications handles GET /api/v1/applications with optional
// ?status=, ?limit= and ?offset= query parameters.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	apps, err := h.appService.GetUserApplications(c.Request.Context(), userID, status, limit, offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"count":        len(apps),
	})
}

// GetApplication handles GET /api/v1/applications/:id.
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	app, err := h.appService.GetApplicationByID(c.Request.Context(), applicationID, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// UpdateApplication handles PUT /api/v1/applications/:id.
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req dto.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	app, err := h.appService.UpdateApplication(c.Request.Context(), applicationID, userID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"application": app})
}

// DeleteApplication handles DELETE /api/v1/applications/:id.
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	if err := h.appService.DeleteApplication(c.Request.Context(), applicationID, userID); err != nil {
		respondServiceError(c, err, "Failed to delete application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully"})
}

// GetApplicationEvents handles GET /api/v1/applications/:id/events.
func (h *ApplicationHandler) GetApplicationEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	events, err := h.appService.GetApplicationEvents(c.Request.Context(), applicationID, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get application events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetStats handles GET /api/v1/applications/stats.
func (h *ApplicationHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	counts, err := h.appService.GetStatusCounts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get application stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": counts})
}
